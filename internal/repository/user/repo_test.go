package user

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/spendgate/internal/domain"
	domuser "github.com/kailas-cloud/spendgate/internal/domain/user"
)

// fakeHashStore is an in-memory hash store.
type fakeHashStore struct {
	hashes map[string]map[string]string
}

func newFakeHashStore() *fakeHashStore {
	return &fakeHashStore{hashes: make(map[string]map[string]string)}
}

func (f *fakeHashStore) HSet(_ context.Context, key string, fields map[string]string) error {
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (f *fakeHashStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	// Missing keys yield an empty map, matching HGETALL semantics.
	out := make(map[string]string)
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeHashStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.hashes[key]
	return ok, nil
}

func TestCreateGet_Roundtrip(t *testing.T) {
	fs := newFakeHashStore()
	repo := New(fs, "spendgate:")
	ctx := context.Background()

	if err := repo.Create(ctx, domuser.User{ID: "u1", Name: "Alice"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "u1" || got.Name != "Alice" {
		t.Errorf("unexpected user: %+v", got)
	}

	if _, ok := fs.hashes["spendgate:user:u1"]; !ok {
		t.Errorf("unexpected keys: %v", fs.hashes)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo := New(newFakeHashStore(), "spendgate:")
	ctx := context.Background()

	if err := repo.Create(ctx, domuser.User{ID: "u1", Name: "Alice"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, domuser.User{ID: "u1", Name: "Bob"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(newFakeHashStore(), "spendgate:")

	_, err := repo.Get(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := New(newFakeHashStore(), "spendgate:")
	ctx := context.Background()

	if err := repo.Create(ctx, domuser.User{ID: "u1", Name: "Alice"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Update(ctx, domuser.User{ID: "u1", Name: "Alicia"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Alicia" {
		t.Errorf("Name = %q, want Alicia", got.Name)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := New(newFakeHashStore(), "spendgate:")

	err := repo.Update(context.Background(), domuser.User{ID: "nobody", Name: "Alice"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
