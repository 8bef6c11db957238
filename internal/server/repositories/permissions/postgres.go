// Package permissions provides PostgreSQL-backed persistence for file shares.
package permissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MaxymDv/CloudDrive-System/internal/common"
	"github.com/MaxymDv/CloudDrive-System/internal/dbx"
	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
)

// PostgresRepository implements share storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert creates the permission row for (fileID, userID) or updates its
// level in place. The unique index on (file_id, user_id) guarantees at most
// one row per pair.
func (r *PostgresRepository) Upsert(ctx context.Context, fileID, userID string, level models.AccessLevel) error {
	query := `
		INSERT INTO permissions (file_id, user_id, access_level)
		VALUES ($1, $2, $3)
		ON CONFLICT (file_id, user_id)
		DO UPDATE SET access_level = EXCLUDED.access_level;
	`
	if _, err := r.db.ExecContext(ctx, query, fileID, userID, string(level)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the permission row for (fileID, userID) or ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, fileID, userID string) (*models.Permission, error) {
	query := `
		SELECT id, file_id, user_id, access_level FROM permissions
		WHERE file_id = $1 AND user_id = $2
	`
	p := &models.Permission{}
	err := r.db.QueryRowContext(ctx, query, fileID, userID).
		Scan(&p.ID, &p.FileID, &p.UserID, &p.AccessLevel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Delete removes the user's own permission row for the file. If no such row
// exists, ErrorNotFound is returned.
func (r *PostgresRepository) Delete(ctx context.Context, fileID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM permissions WHERE file_id = $1 AND user_id = $2`, fileID, userID)
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

// DeleteForFile removes every permission row of a file; used by the
// owner-delete cascade. Zero rows is fine (unshared file).
func (r *PostgresRepository) DeleteForFile(ctx context.Context, fileID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM permissions WHERE file_id = $1`, fileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListUserIDs returns the ids of every user the file is shared with.
func (r *PostgresRepository) ListUserIDs(ctx context.Context, fileID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM permissions WHERE file_id = $1`, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to select permissions: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
