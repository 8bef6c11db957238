package cli

import (
	"context"
	"fmt"

	"github.com/MaxymDv/CloudDrive-System/internal/client/api"
)

// findByName resolves a user-supplied name to a listing entry. It matches
// the storage name first (always unique), then the display name. Display
// names may collide across owners; the first match in listing order wins,
// so users with colliding names should address files by storage name.
func (a *App) findByName(ctx context.Context, name string) (*api.FileInfo, error) {
	files, err := a.api.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing failed: %w", err)
	}

	for i := range files {
		if files[i].StorageName == name {
			return &files[i], nil
		}
	}
	for i := range files {
		if files[i].DisplayName == name {
			return &files[i], nil
		}
	}
	return nil, fmt.Errorf("no file named %q", name)
}
