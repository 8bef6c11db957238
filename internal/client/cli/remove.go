package cli

import (
	"context"
	"os"
)

// Remove prompts for a file name and deletes it. Owners lose the file for
// everyone; guests only lose their own access.
func (a *App) Remove(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name of the file to remove", os.Stdout)
	if err != nil {
		return err
	}

	file, err := a.findByName(ctx, name)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	status, err := a.api.Delete(ctx, file.StorageName)
	if err != nil {
		printlnFn("Remove failed:", err)
		return err
	}

	switch status {
	case "deleted_completely":
		printlnFn("Deleted", file.DisplayName)
	case "removed_permission":
		printlnFn("Removed your access to", file.DisplayName)
	default:
		printlnFn("Server reported:", status)
	}
	return nil
}
