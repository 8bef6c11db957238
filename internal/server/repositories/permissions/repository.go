package permissions

import (
	"context"

	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, fileID, userID string, level models.AccessLevel) error
	Get(ctx context.Context, fileID, userID string) (*models.Permission, error)
	Delete(ctx context.Context, fileID, userID string) error
	DeleteForFile(ctx context.Context, fileID string) error
	ListUserIDs(ctx context.Context, fileID string) ([]string, error)
}
