package cli

import (
	"context"
	"os"
)

// Edit prompts for a file name and replacement text, then overwrites the
// file's content on the server. Requires write access.
func (a *App) Edit(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name of the file to edit", os.Stdout)
	if err != nil {
		return err
	}

	file, err := a.findByName(ctx, name)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	content, err := GetMultiline(a.reader, "Enter new content", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.UpdateContent(ctx, file.StorageName, content); err != nil {
		printlnFn("Edit failed:", err)
		return err
	}
	printlnFn("Updated", file.DisplayName)
	return nil
}
