package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MaxymDv/CloudDrive-System/internal/client/api"
)

// sortFiles orders the listing by the given key: "name", "size", "created",
// or "updated". Unknown keys leave the order as the server sent it.
func sortFiles(files []api.FileInfo, key string) {
	switch key {
	case "name":
		sort.SliceStable(files, func(i, j int) bool {
			return strings.ToLower(files[i].DisplayName) < strings.ToLower(files[j].DisplayName)
		})
	case "size":
		sort.SliceStable(files, func(i, j int) bool { return files[i].Size > files[j].Size })
	case "created":
		sort.SliceStable(files, func(i, j int) bool { return files[i].CreatedAt.After(files[j].CreatedAt) })
	case "updated":
		sort.SliceStable(files, func(i, j int) bool { return files[i].UpdatedAt.After(files[j].UpdatedAt) })
	}
}

// filterFiles keeps entries whose name, uploader, or editor contains the
// query, case-insensitively. An empty query keeps everything.
func filterFiles(files []api.FileInfo, query string) []api.FileInfo {
	if query == "" {
		return files
	}
	q := strings.ToLower(query)
	out := make([]api.FileInfo, 0, len(files))
	for _, f := range files {
		if strings.Contains(strings.ToLower(f.DisplayName), q) ||
			strings.Contains(strings.ToLower(f.Uploader), q) ||
			strings.Contains(strings.ToLower(f.Editor), q) {
			out = append(out, f)
		}
	}
	return out
}

// List prints the files visible to the user. Optional args: a sort key
// (name, size, created, updated) and a filter substring, in either order.
func (a *App) List(ctx context.Context, args []string) error {
	files, err := a.api.Files(ctx)
	if err != nil {
		printlnFn("Listing failed:", err)
		return err
	}

	sortKey, query := "", ""
	for _, arg := range args {
		switch arg {
		case "name", "size", "created", "updated":
			sortKey = arg
		default:
			query = arg
		}
	}

	files = filterFiles(files, query)
	sortFiles(files, sortKey)

	if len(files) == 0 {
		printlnFn("No files")
		return nil
	}

	for _, f := range files {
		printlnFn(fmt.Sprintf("%-30s %8d B  %-6s  uploader=%s editor=%s  [%s]",
			f.DisplayName, f.Size, f.Access, f.Uploader, f.Editor, f.StorageName))
	}
	return nil
}
