package user

import (
	"context"

	domuser "github.com/kailas-cloud/spendgate/internal/domain/user"
)

// Repository defines the storage contract for user records.
type Repository interface {
	Create(ctx context.Context, u domuser.User) error
	Get(ctx context.Context, id string) (domuser.User, error)
	Update(ctx context.Context, u domuser.User) error
}
