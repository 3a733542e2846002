package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sakif/crudauth/internal/model"
)

func strPtr(s string) *string { return &s }

func TestItemCreate_Success(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	q := `(?s)^INSERT\s+INTO\s+items\s*\(id,\s*name,\s*description\)\s*SELECT\s+COUNT\(\*\)\s*\+\s*1,\s*\$1,\s*\$2\s+FROM\s+items\s+RETURNING\s+id$`
	mock.ExpectQuery(q).
		WithArgs("pen", "blue").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	got, err := repo.Create(context.Background(), model.NewItem{Name: "pen", Description: "blue"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if *got != (model.Item{ID: 4, Name: "pen", Description: "blue"}) {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestItemCreate_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+items`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), model.NewItem{Name: "pen"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestItemFindAll(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name,\s*description\s+FROM\s+items\s+ORDER\s+BY\s+seq$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(1, "a", "").
			AddRow(2, "b", "x"))

	got, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(got) != 2 || got[1].Name != "b" {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestItemFindOne_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectQuery(`(?s)SELECT\s+id,\s*name,\s*description\s+FROM\s+items\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}))

	got, err := repo.FindOne(context.Background(), 7)
	if err != nil || got != nil {
		t.Fatalf("FindOne = %+v, %v; want nil, nil", got, err)
	}
}

func TestItemUpdate_Success(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT\s+seq,\s*id,\s*name,\s*description\s+FROM\s+items.*FOR\s+UPDATE`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"seq", "id", "name", "description"}).AddRow(10, 1, "a", "old"))
	mock.ExpectExec(`(?s)UPDATE\s+items\s+SET\s+name\s*=\s*\$1,\s*description\s*=\s*\$2\s+WHERE\s+seq\s*=\s*\$3`).
		WithArgs("a", "new", int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.Update(context.Background(), 1, model.ItemPatch{Description: strPtr("new")})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if *got != (model.Item{ID: 1, Name: "a", Description: "new"}) {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestItemUpdate_NotFoundCommitsNothing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+seq`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"seq", "id", "name", "description"}))
	mock.ExpectCommit()

	got, err := repo.Update(context.Background(), 3, model.ItemPatch{Name: strPtr("x")})
	if err != nil || got != nil {
		t.Fatalf("Update = %+v, %v; want nil, nil", got, err)
	}
}

func TestItemUpdate_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+seq`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"seq", "id", "name", "description"}).AddRow(1, 1, "a", ""))
	mock.ExpectExec(`UPDATE\s+items`).WillReturnError(errors.New("write failed"))
	mock.ExpectRollback()

	if _, err := repo.Update(context.Background(), 1, model.ItemPatch{Name: strPtr("x")}); err == nil {
		t.Fatal("expected error")
	}
}

func TestItemDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectExec(`DELETE\s+FROM\s+items\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE\s+FROM\s+items`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), 2)
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v; want true", ok, err)
	}
	ok, err = repo.Delete(context.Background(), 2)
	if err != nil || ok {
		t.Fatalf("Delete = %v, %v; want false", ok, err)
	}
}
