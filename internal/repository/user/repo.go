// Package user persists user records as hashes in the KV store.
package user

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/spendgate/internal/domain"
	domuser "github.com/kailas-cloud/spendgate/internal/domain/user"
)

// store is the consumer interface for user persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo stores users under <prefix>user:<id>.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a user repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Create persists a new user. Fails with domain.ErrUserExists on a
// duplicate id.
func (r *Repo) Create(ctx context.Context, u domuser.User) error {
	key := r.key(u.ID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check user %s: %w", u.ID, err)
	}
	if exists {
		return domain.ErrUserExists
	}
	if err := r.store.HSet(ctx, key, userToHash(u)); err != nil {
		return fmt.Errorf("create user %s: %w", u.ID, err)
	}
	return nil
}

// Get reads a user by id. Returns domain.ErrUserNotFound when absent.
func (r *Repo) Get(ctx context.Context, id string) (domuser.User, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	if len(m) == 0 {
		// HGETALL returns an empty map for missing keys.
		return domuser.User{}, domain.ErrUserNotFound
	}
	return userFromHash(id, m), nil
}

// Update overwrites the name of an existing user. Fails with
// domain.ErrUserNotFound when the id is unknown.
func (r *Repo) Update(ctx context.Context, u domuser.User) error {
	key := r.key(u.ID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check user %s: %w", u.ID, err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	if err := r.store.HSet(ctx, key, userToHash(u)); err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "user:" + id
}

// userToHash converts a domain User to a map for HSET.
func userToHash(u domuser.User) map[string]string {
	return map[string]string{
		"user_name": u.Name,
	}
}

// userFromHash hydrates a domain User from an HGETALL result map.
func userFromHash(id string, m map[string]string) domuser.User {
	return domuser.User{
		ID:   id,
		Name: m["user_name"],
	}
}
