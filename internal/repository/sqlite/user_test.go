package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/model"
)

func TestUserCreate(t *testing.T) {
	u := newTestDB(t).Users()

	user := &model.User{Username: "ram", PasswordHash: "$2a$04$hash"}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// modified in place through the pointer
	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	u := newTestDB(t).Users()
	ctx := context.Background()

	if err := u.Create(ctx, &model.User{Username: "ram", PasswordHash: "a"}); err != nil {
		t.Fatal(err)
	}
	err := u.Create(ctx, &model.User{Username: "ram", PasswordHash: "b"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() duplicate error = %v, want ErrConflict", err)
	}
}

func TestUserLookups(t *testing.T) {
	u := newTestDB(t).Users()
	ctx := context.Background()

	user := &model.User{Username: "ram", PasswordHash: "h"}
	if err := u.Create(ctx, user); err != nil {
		t.Fatal(err)
	}

	byName, err := u.GetByUsername(ctx, "ram")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if byName.ID != user.ID || byName.PasswordHash != "h" {
		t.Errorf("GetByUsername() = %+v", byName)
	}

	byID, err := u.GetByID(ctx, user.ID)
	if err != nil || byID.Username != "ram" {
		t.Errorf("GetByID() = %+v, %v", byID, err)
	}
}

func TestUserLookups_NotFound(t *testing.T) {
	u := newTestDB(t).Users()
	ctx := context.Background()

	if _, err := u.GetByUsername(ctx, "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername() error = %v, want ErrNotFound", err)
	}
	if _, err := u.GetByID(ctx, "nope"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}
