package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/MaxymDv/CloudDrive-System/internal/common"
	"github.com/MaxymDv/CloudDrive-System/internal/dbx"
	"github.com/MaxymDv/CloudDrive-System/internal/logging"
	"github.com/MaxymDv/CloudDrive-System/internal/server/blobstore"
	"github.com/MaxymDv/CloudDrive-System/internal/server/cache"
	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
	"github.com/MaxymDv/CloudDrive-System/internal/server/repositories/repomanager"
	"github.com/MaxymDv/CloudDrive-System/internal/syncx"
)

// DeleteResult tells the caller which of the two delete semantics applied.
type DeleteResult string

const (
	// DeletedFile: the requester owned the file; the record, all its
	// permission rows, and (best-effort) the blob are gone.
	DeletedFile DeleteResult = "deleted_completely"
	// RemovedPermission: the requester was a guest; only their own share
	// was revoked and the file is untouched.
	RemovedPermission DeleteResult = "removed_permission"
)

// FileService implements the upload resolver and the sharing & deletion
// manager on top of the file registry and the blob store.
//
// Mutations of the same file are serialized with a keyed mutex: uploads hold
// a lock on (uploader, display name) while resolving their merge target, and
// every mutation of an existing file holds a lock on its storage name for
// the whole "decide target → write blob → commit metadata" unit. The name
// lock is always taken before the file lock, never the other way around.
// Blob writes precede metadata commits, so a crash in between leaves an
// orphaned blob (recoverable) rather than metadata describing bytes that
// were never written.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.BlobStore
	listings    cache.Cache
	access      *AccessController
	locks       *syncx.KeyedMutex
	logger      logging.Logger
}

// NewFileService constructs a FileService. The listings cache may be nil,
// which disables caching.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.BlobStore,
	listings cache.Cache, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		listings:    listings,
		access:      NewAccessController(db, m),
		locks:       syncx.NewKeyedMutex(),
		logger:      logger.With("module", "file_service"),
	}
}

func nameLockKey(userID, displayName string) string { return "name/" + userID + "/" + displayName }
func fileLockKey(storageName string) string         { return "file/" + storageName }
func listingKey(userID string) string               { return "files:" + userID }

// Upload stores content under displayName on behalf of user.
//
// Merge resolution, first match wins:
//  1. a file owned by the uploader with this exact display name is
//     overwritten in place (same storage name, new bytes);
//  2. a file shared to the uploader at write level with this exact display
//     name is overwritten in place, and the uploader becomes its editor;
//  3. otherwise a new file owned by the uploader is created under a fresh
//     storage key, even if the same display name already exists under
//     another owner. The resulting name collision is deliberate.
func (s *FileService) Upload(ctx context.Context, user *models.User, displayName string, content io.Reader) (*models.File, error) {
	nameKey := nameLockKey(user.ID, displayName)
	s.locks.Lock(nameKey)
	defer s.locks.Unlock(nameKey)

	target, err := s.resolveTarget(ctx, user, displayName)
	if err != nil {
		return nil, err
	}

	if target == nil {
		return s.createFile(ctx, user, displayName, content)
	}

	fileKey := fileLockKey(target.StorageName)
	s.locks.Lock(fileKey)
	defer s.locks.Unlock(fileKey)

	// Re-read under the lock; the target may have been deleted since
	// resolution, in which case the upload degrades to a fresh create.
	current, err := s.repomanager.Files(s.db).GetByStorageName(ctx, target.StorageName)
	if errors.Is(err, common.ErrorNotFound) {
		return s.createFile(ctx, user, displayName, content)
	}
	if err != nil {
		return nil, err
	}

	return s.overwriteFile(ctx, user, current, content)
}

// resolveTarget applies the merge-resolution order and returns the file an
// upload should overwrite, or nil when a new file must be created.
func (s *FileService) resolveTarget(ctx context.Context, user *models.User, displayName string) (*models.File, error) {
	repo := s.repomanager.Files(s.db)

	own, err := repo.FindByOwnerAndName(ctx, user.ID, displayName)
	if err == nil {
		return own, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	shared, err := repo.FindSharedWriteByName(ctx, user.ID, displayName)
	if err == nil {
		return shared, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	return nil, nil
}

func (s *FileService) createFile(ctx context.Context, user *models.User, displayName string, content io.Reader) (*models.File, error) {
	key := blobstore.NewKey(displayName)

	size, err := s.blobs.Write(ctx, key, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	file := &models.File{
		DisplayName:  displayName,
		Extension:    strings.ToLower(filepath.Ext(displayName)),
		Size:         size,
		StorageName:  key,
		UploaderName: user.Username,
		EditorName:   user.Username,
		OwnerID:      user.ID,
	}
	created, err := s.repomanager.Files(s.db).Create(ctx, file)
	if err != nil {
		// The blob is orphaned now; a later garbage-collection pass can
		// reclaim it. Committing metadata before the blob would be worse.
		return nil, err
	}

	s.invalidateListings(ctx, user.ID)
	return created, nil
}

func (s *FileService) overwriteFile(ctx context.Context, user *models.User, target *models.File, content io.Reader) (*models.File, error) {
	size, err := s.blobs.Write(ctx, target.StorageName, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	if err := s.repomanager.Files(s.db).UpdateAfterWrite(ctx, target.ID, user.Username, size); err != nil {
		return nil, err
	}
	target.EditorName = user.Username
	target.Size = size

	s.invalidateListingsForFile(ctx, target, user.ID)
	return target, nil
}

// List returns every file the user owns or has been granted access to, each
// annotated with the user's effective access level. Results may be served
// from the listing cache; mutations invalidate affected users' entries.
func (s *FileService) List(ctx context.Context, user *models.User) ([]*models.FileInfo, error) {
	key := listingKey(user.ID)

	if s.listings != nil {
		if b, err := s.listings.Get(ctx, key); err != nil {
			s.logger.Warn(ctx, "listing cache get failed", "error", err)
		} else if b != nil {
			var cached []*models.FileInfo
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	result, err := s.repomanager.Files(s.db).ListVisibleTo(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if s.listings != nil {
		if b, err := json.Marshal(result); err == nil {
			if err := s.listings.Set(ctx, key, b); err != nil {
				s.logger.Warn(ctx, "listing cache set failed", "error", err)
			}
		}
	}
	return result, nil
}

// Download streams the file's content to a caller with at least read access.
func (s *FileService) Download(ctx context.Context, user *models.User, storageName string) (io.ReadCloser, *models.File, error) {
	file, err := s.repomanager.Files(s.db).GetByStorageName(ctx, storageName)
	if err != nil {
		return nil, nil, err
	}

	if err := s.access.RequireRead(ctx, user, file); err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Read(ctx, storageName)
	if err != nil {
		if errors.Is(err, blobstore.ErrKeyNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return rc, file, nil
}

// UpdateContent overwrites the blob addressed by storageName with new text
// content. Requires write access; read-only callers get ErrorUnauthorized
// and the blob and metadata stay untouched.
func (s *FileService) UpdateContent(ctx context.Context, user *models.User, storageName string, content string) error {
	file, err := s.repomanager.Files(s.db).GetByStorageName(ctx, storageName)
	if err != nil {
		return err
	}
	if err := s.access.RequireWrite(ctx, user, file); err != nil {
		return err
	}

	fileKey := fileLockKey(storageName)
	s.locks.Lock(fileKey)
	defer s.locks.Unlock(fileKey)

	// Re-read and re-check under the lock: the file may have been deleted
	// or the caller's share revoked since the first read.
	file, err = s.repomanager.Files(s.db).GetByStorageName(ctx, storageName)
	if err != nil {
		return err
	}
	if err := s.access.RequireWrite(ctx, user, file); err != nil {
		return err
	}

	_, err = s.overwriteFile(ctx, user, file, strings.NewReader(content))
	return err
}

// Share grants or updates targetUsername's access to the caller's file with
// the given display name. Owner-only; re-sharing at a different level
// updates the single permission row in place.
func (s *FileService) Share(ctx context.Context, owner *models.User, displayName, targetUsername, level string) error {
	shareLevel, err := models.ParseShareLevel(level)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidAccessLevel, err)
	}

	file, err := s.repomanager.Files(s.db).FindByOwnerAndName(ctx, owner.ID, displayName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrNotOwner
		}
		return err
	}
	if err := s.access.RequireOwner(owner, file); err != nil {
		return err
	}

	target, err := s.repomanager.Users(s.db).GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target.ID == file.OwnerID {
		return common.ErrShareWithOwner
	}

	fileKey := fileLockKey(file.StorageName)
	s.locks.Lock(fileKey)
	defer s.locks.Unlock(fileKey)

	if _, err := s.repomanager.Files(s.db).GetByStorageName(ctx, file.StorageName); err != nil {
		return err
	}

	if err := s.repomanager.Permissions(s.db).Upsert(ctx, file.ID, target.ID, shareLevel); err != nil {
		return err
	}

	s.invalidateListings(ctx, target.ID)
	return nil
}

// Delete applies owner-vs-guest deletion semantics to the file addressed by
// storageName.
//
// Owner: the file row and all its permission rows are removed in one
// transaction, then blob deletion is requested; a blob-store failure is
// logged and swallowed since the metadata is authoritative and an orphaned
// blob is recoverable. Guest: only the requester's own permission row is
// removed; with no row to revoke, ErrNoAccessToRevoke is returned.
func (s *FileService) Delete(ctx context.Context, user *models.User, storageName string) (DeleteResult, error) {
	file, err := s.repomanager.Files(s.db).GetByStorageName(ctx, storageName)
	if err != nil {
		return "", err
	}

	fileKey := fileLockKey(storageName)
	s.locks.Lock(fileKey)
	defer s.locks.Unlock(fileKey)

	file, err = s.repomanager.Files(s.db).GetByStorageName(ctx, storageName)
	if err != nil {
		return "", err
	}

	if file.OwnerID != user.ID {
		if err := s.repomanager.Permissions(s.db).Delete(ctx, file.ID, user.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return "", common.ErrNoAccessToRevoke
			}
			return "", err
		}
		s.invalidateListings(ctx, user.ID)
		return RemovedPermission, nil
	}

	sharedWith, err := s.repomanager.Permissions(s.db).ListUserIDs(ctx, file.ID)
	if err != nil {
		return "", err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Permissions(tx).DeleteForFile(ctx, file.ID); err != nil {
			return err
		}
		return s.repomanager.Files(tx).Delete(ctx, file.ID)
	})
	if err != nil {
		return "", err
	}

	if err := s.blobs.Delete(ctx, file.StorageName); err != nil {
		s.logger.Warn(ctx, "blob delete failed, leaving orphan",
			"storage_name", file.StorageName, "error", err)
	}

	s.invalidateListings(ctx, append(sharedWith, user.ID)...)
	return DeletedFile, nil
}

func (s *FileService) invalidateListings(ctx context.Context, userIDs ...string) {
	if s.listings == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, listingKey(id))
	}
	if err := s.listings.Del(ctx, keys...); err != nil {
		s.logger.Warn(ctx, "listing cache invalidation failed", "error", err)
	}
}

// invalidateListingsForFile drops the cached listings of everyone who can
// see the file: its owner, every user it is shared with, and the actor.
func (s *FileService) invalidateListingsForFile(ctx context.Context, file *models.File, actorID string) {
	if s.listings == nil {
		return
	}
	ids := []string{file.OwnerID, actorID}
	if sharedWith, err := s.repomanager.Permissions(s.db).ListUserIDs(ctx, file.ID); err == nil {
		ids = append(ids, sharedWith...)
	}
	s.invalidateListings(ctx, ids...)
}
