package permissions

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MaxymDv/CloudDrive-System/internal/common"
	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestUpsert_UsesOnConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)INSERT\s+INTO\s+permissions\s*\(file_id,\s*user_id,\s*access_level\).*ON\s+CONFLICT\s*\(file_id,\s*user_id\).*DO\s+UPDATE\s+SET\s+access_level\s*=\s*EXCLUDED\.access_level`
	mock.ExpectExec(q).
		WithArgs("f-1", "u-2", "write").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), "f-1", "u-2", models.AccessWrite); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "file_id", "user_id", "access_level"}).
		AddRow("p-1", "f-1", "u-2", "read")
	mock.ExpectQuery(`SELECT\s+id,\s*file_id,\s*user_id,\s*access_level\s+FROM\s+permissions`).
		WithArgs("f-1", "u-2").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "f-1", "u-2")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.AccessLevel != models.AccessRead {
		t.Fatalf("unexpected permission: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*file_id`).
		WithArgs("f-1", "u-9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "f-1", "u-9")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_RemovesOwnRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+permissions\s+WHERE\s+file_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs("f-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "f-1", "u-2"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NoRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+permissions`).
		WithArgs("f-1", "u-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "f-1", "u-9"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDeleteForFile_ZeroRowsOK(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+permissions\s+WHERE\s+file_id\s*=\s*\$1`).
		WithArgs("f-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteForFile(context.Background(), "f-1"); err != nil {
		t.Fatalf("DeleteForFile error: %v", err)
	}
}

func TestListUserIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id"}).AddRow("u-2").AddRow("u-3")
	mock.ExpectQuery(`SELECT\s+user_id\s+FROM\s+permissions`).
		WithArgs("f-1").
		WillReturnRows(rows)

	got, err := repo.ListUserIDs(context.Background(), "f-1")
	if err != nil {
		t.Fatalf("ListUserIDs error: %v", err)
	}
	if len(got) != 2 || got[0] != "u-2" || got[1] != "u-3" {
		t.Fatalf("unexpected ids: %v", got)
	}
}
