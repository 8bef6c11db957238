// Package files provides PostgreSQL-backed persistence for file metadata
// and the named lookups used by upload merge resolution.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MaxymDv/CloudDrive-System/internal/common"
	"github.com/MaxymDv/CloudDrive-System/internal/dbx"
	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
)

// PostgresRepository implements file storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = `id, display_name, extension, size, storage_name, created_at, updated_at, uploader_name, editor_name, owner_id`

func scanFile(row *sql.Row) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(&f.ID, &f.DisplayName, &f.Extension, &f.Size, &f.StorageName,
		&f.CreatedAt, &f.UpdatedAt, &f.UploaderName, &f.EditorName, &f.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// Create inserts a new file row and returns it with generated fields filled in.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (display_name, extension, size, storage_name, uploader_name, editor_name, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.DisplayName, file.Extension, file.Size, file.StorageName,
		file.UploaderName, file.EditorName, file.OwnerID).
		Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

// UpdateAfterWrite commits the metadata half of a content overwrite: new
// editor, new size, updated_at bumped. Exactly one row must be affected.
func (r *PostgresRepository) UpdateAfterWrite(ctx context.Context, id string, editorName string, size int64) error {
	query := `
		UPDATE files SET editor_name = $2, size = $3, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, editorName, size)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// FindByOwnerAndName returns the file with this exact display name owned by
// ownerID, or ErrorNotFound. This is step 1 of upload merge resolution.
func (r *PostgresRepository) FindByOwnerAndName(ctx context.Context, ownerID, displayName string) (*models.File, error) {
	query := `
		SELECT ` + fileColumns + ` FROM files
		WHERE owner_id = $1 AND display_name = $2
	`
	return scanFile(r.db.QueryRowContext(ctx, query, ownerID, displayName))
}

// FindSharedWriteByName returns a file with this exact display name that is
// shared to userID at write level, or ErrorNotFound. This is step 2 of
// upload merge resolution.
func (r *PostgresRepository) FindSharedWriteByName(ctx context.Context, userID, displayName string) (*models.File, error) {
	query := `
		SELECT ` + fileColumns + ` FROM files
		JOIN permissions ON permissions.file_id = files.id
		WHERE permissions.user_id = $1
		  AND permissions.access_level = 'write'
		  AND files.display_name = $2
	`
	return scanFile(r.db.QueryRowContext(ctx, query, userID, displayName))
}

// GetByStorageName returns the file addressed by its storage key.
func (r *PostgresRepository) GetByStorageName(ctx context.Context, storageName string) (*models.File, error) {
	query := `
		SELECT ` + fileColumns + ` FROM files
		WHERE storage_name = $1
	`
	return scanFile(r.db.QueryRowContext(ctx, query, storageName))
}

// ListVisibleTo returns every file the user owns or has a permission row
// for, each annotated with the user's effective access level.
func (r *PostgresRepository) ListVisibleTo(ctx context.Context, userID string) ([]*models.FileInfo, error) {
	query := `
		SELECT files.id, display_name, extension, size, storage_name, created_at, updated_at,
		       uploader_name, editor_name, owner_id,
		       CASE WHEN owner_id = $1 THEN 'owner' ELSE permissions.access_level END AS access
		FROM files
		LEFT JOIN permissions ON permissions.file_id = files.id AND permissions.user_id = $1
		WHERE owner_id = $1 OR permissions.user_id IS NOT NULL
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.FileInfo
	for rows.Next() {
		item := &models.FileInfo{}
		if err := rows.Scan(
			&item.ID, &item.DisplayName, &item.Extension, &item.Size, &item.StorageName,
			&item.CreatedAt, &item.UpdatedAt, &item.UploaderName, &item.EditorName,
			&item.OwnerID, &item.Access,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the file row. Permission rows are removed by the caller in
// the same transaction (the schema's ON DELETE CASCADE is a backstop).
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
