package files

import (
	"context"

	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
)

// Repository is the registry's query surface for file metadata. The upload
// merge-resolution lookups (FindByOwnerAndName, FindSharedWriteByName) live
// here so the resolution order is enforced in one place.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	UpdateAfterWrite(ctx context.Context, id string, editorName string, size int64) error
	FindByOwnerAndName(ctx context.Context, ownerID, displayName string) (*models.File, error)
	FindSharedWriteByName(ctx context.Context, userID, displayName string) (*models.File, error)
	GetByStorageName(ctx context.Context, storageName string) (*models.File, error)
	ListVisibleTo(ctx context.Context, userID string) ([]*models.FileInfo, error)
	Delete(ctx context.Context, id string) error
}
