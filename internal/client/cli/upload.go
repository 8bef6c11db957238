package cli

import (
	"context"
	"os"
	"path/filepath"
)

// Upload prompts for a local path and sends the file under its base name.
// If a file with that name is already owned by or write-shared to the user,
// the server updates it in place instead of creating a duplicate.
func (a *App) Upload(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Enter path of the file to upload", os.Stdout)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		printlnFn("Cannot open file:", err)
		return err
	}
	defer f.Close()

	fi, err := a.api.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		printlnFn("Upload failed:", err)
		return err
	}
	printlnFn("Uploaded", fi.DisplayName, "as", fi.StorageName)
	return nil
}
