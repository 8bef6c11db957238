package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/MaxymDv/CloudDrive-System/internal/filex"
)

// Download prompts for a file name, fetches its content, and writes it into
// the configured download directory.
func (a *App) Download(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name of the file to download", os.Stdout)
	if err != nil {
		return err
	}

	file, err := a.findByName(ctx, name)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	content, err := a.api.Download(ctx, file.StorageName)
	if err != nil {
		printlnFn("Download failed:", err)
		return err
	}

	dir, err := filex.EnsureSubDir(a.config.DownloadDir)
	if err != nil {
		printlnFn("Cannot create download directory:", err)
		return err
	}

	dest := filepath.Join(dir, file.DisplayName)
	if err := os.WriteFile(dest, content, 0o660); err != nil {
		printlnFn("Cannot write file:", err)
		return err
	}
	printlnFn("Saved to", dest)
	return nil
}
