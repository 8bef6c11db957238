package cli

import (
	"context"
	"os"
)

// Share prompts for a file the user owns, a target username, and an access
// level ("read" or "write"), and grants the share.
func (a *App) Share(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name of your file to share", os.Stdout)
	if err != nil {
		return err
	}
	target, err := GetSimpleText(a.reader, "Enter username to share with", os.Stdout)
	if err != nil {
		return err
	}
	level, err := GetSimpleText(a.reader, "Enter access level (read/write)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.Share(ctx, name, target, level); err != nil {
		printlnFn("Share failed:", err)
		return err
	}
	printlnFn("Shared", name, "with", target)
	return nil
}
