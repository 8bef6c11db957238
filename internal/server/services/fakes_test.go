package services

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/MaxymDv/CloudDrive-System/internal/common"
	"github.com/MaxymDv/CloudDrive-System/internal/dbx"
	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
	filesrepo "github.com/MaxymDv/CloudDrive-System/internal/server/repositories/files"
	permsrepo "github.com/MaxymDv/CloudDrive-System/internal/server/repositories/permissions"
	usersrepo "github.com/MaxymDv/CloudDrive-System/internal/server/repositories/users"
)

// In-memory fakes implementing the repository interfaces, so service logic
// is tested without a database. The fake manager hands out the same fakes
// regardless of the DBTX it is given.

type fakeUsersRepo struct {
	mu    sync.Mutex
	seq   int
	byID  map[string]*models.User
	byNam map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}, byNam: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byNam[user.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.seq++
	u := *user
	u.ID = "u-" + strconv.Itoa(f.seq)
	u.CreatedAt = time.Now()
	f.byID[u.ID] = &u
	f.byNam[u.Username] = &u
	return &u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byNam[username]; ok {
		c := *u
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

type fakePermsRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Permission // key: fileID + "/" + userID
}

func newFakePermsRepo() *fakePermsRepo {
	return &fakePermsRepo{rows: map[string]*models.Permission{}}
}

func (f *fakePermsRepo) put(fileID, userID string, level models.AccessLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[fileID+"/"+userID] = &models.Permission{
		ID: "p-" + fileID + "-" + userID, FileID: fileID, UserID: userID, AccessLevel: level,
	}
}

func (f *fakePermsRepo) Upsert(ctx context.Context, fileID, userID string, level models.AccessLevel) error {
	f.put(fileID, userID, level)
	return nil
}

func (f *fakePermsRepo) Get(ctx context.Context, fileID, userID string) (*models.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.rows[fileID+"/"+userID]; ok {
		c := *p
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakePermsRepo) Delete(ctx context.Context, fileID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fileID + "/" + userID
	if _, ok := f.rows[key]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, key)
	return nil
}

func (f *fakePermsRepo) DeleteForFile(ctx context.Context, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, p := range f.rows {
		if p.FileID == fileID {
			delete(f.rows, k)
		}
	}
	return nil
}

func (f *fakePermsRepo) ListUserIDs(ctx context.Context, fileID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, p := range f.rows {
		if p.FileID == fileID {
			ids = append(ids, p.UserID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakePermsRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeFilesRepo struct {
	mu    sync.Mutex
	seq   int
	files map[string]*models.File // by ID
	perms *fakePermsRepo
}

func newFakeFilesRepo(perms *fakePermsRepo) *fakeFilesRepo {
	return &fakeFilesRepo{files: map[string]*models.File{}, perms: perms}
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c := *file
	c.ID = "f-" + strconv.Itoa(f.seq)
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	f.files[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeFilesRepo) UpdateAfterWrite(ctx context.Context, id string, editorName string, size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return common.ErrorNotFound
	}
	file.EditorName = editorName
	file.Size = size
	file.UpdatedAt = time.Now()
	return nil
}

func (f *fakeFilesRepo) FindByOwnerAndName(ctx context.Context, ownerID, displayName string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, file := range f.files {
		if file.OwnerID == ownerID && file.DisplayName == displayName {
			c := *file
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) FindSharedWriteByName(ctx context.Context, userID, displayName string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, file := range f.files {
		if file.DisplayName != displayName {
			continue
		}
		if p, err := f.perms.Get(ctx, file.ID, userID); err == nil && p.AccessLevel == models.AccessWrite {
			c := *file
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) GetByStorageName(ctx context.Context, storageName string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, file := range f.files {
		if file.StorageName == storageName {
			c := *file
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) ListVisibleTo(ctx context.Context, userID string) ([]*models.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.FileInfo
	for _, file := range f.files {
		var access models.AccessLevel
		if file.OwnerID == userID {
			access = models.AccessOwner
		} else if p, err := f.perms.Get(ctx, file.ID, userID); err == nil {
			access = p.AccessLevel
		} else {
			continue
		}
		result = append(result, &models.FileInfo{File: *file, Access: access})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeFilesRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.files, id)
	return nil
}

func (f *fakeFilesRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

type fakeRepoManager struct {
	users *fakeUsersRepo
	files *fakeFilesRepo
	perms *fakePermsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	perms := newFakePermsRepo()
	return &fakeRepoManager{
		users: newFakeUsersRepo(),
		files: newFakeFilesRepo(perms),
		perms: perms,
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.users }
func (m *fakeRepoManager) Files(db dbx.DBTX) filesrepo.Repository             { return m.files }
func (m *fakeRepoManager) Permissions(db dbx.DBTX) permsrepo.Repository       { return m.perms }
