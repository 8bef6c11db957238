// Package services contains server-side business logic: access control,
// upload merge resolution, sharing and deletion semantics, and account
// management.
package services

import (
	"context"
	"errors"

	"github.com/MaxymDv/CloudDrive-System/internal/common"
	"github.com/MaxymDv/CloudDrive-System/internal/dbx"
	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
	"github.com/MaxymDv/CloudDrive-System/internal/server/repositories/repomanager"
)

// AccessController computes a user's effective access level to a file and
// gates every other operation on it. It has no side effects; the result is a
// pure function of the current registry state.
type AccessController struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

// NewAccessController constructs an AccessController reading through the
// given DBTX.
func NewAccessController(db dbx.DBTX, m repomanager.RepositoryManager) *AccessController {
	return &AccessController{db: db, repomanager: m}
}

// EffectiveAccess returns the caller's access level for file: "owner" for
// the owning user regardless of any permission rows, else the stored share
// level, else "none".
func (a *AccessController) EffectiveAccess(ctx context.Context, user *models.User, file *models.File) (models.AccessLevel, error) {
	if file.OwnerID == user.ID {
		return models.AccessOwner, nil
	}

	perm, err := a.repomanager.Permissions(a.db).Get(ctx, file.ID, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.AccessNone, nil
		}
		return "", err
	}
	return perm.AccessLevel, nil
}

// RequireRead fails with ErrorUnauthorized unless the user may list the file
// and read its content.
func (a *AccessController) RequireRead(ctx context.Context, user *models.User, file *models.File) error {
	level, err := a.EffectiveAccess(ctx, user, file)
	if err != nil {
		return err
	}
	if !level.CanRead() {
		return common.ErrorUnauthorized
	}
	return nil
}

// RequireWrite fails with ErrorUnauthorized unless the user may overwrite
// the file's content or metadata.
func (a *AccessController) RequireWrite(ctx context.Context, user *models.User, file *models.File) error {
	level, err := a.EffectiveAccess(ctx, user, file)
	if err != nil {
		return err
	}
	if !level.CanWrite() {
		return common.ErrorUnauthorized
	}
	return nil
}

// RequireOwner fails with ErrNotOwner unless the user owns the file.
// Deleting the file record and creating or updating shares are owner-only.
func (a *AccessController) RequireOwner(user *models.User, file *models.File) error {
	if file.OwnerID != user.ID {
		return common.ErrNotOwner
	}
	return nil
}
