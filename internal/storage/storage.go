package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/aolserver/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateAccount indicates the account name is already taken.
var ErrDuplicateAccount = errors.New("account already exists")

// UserStore captures persistence operations needed by handlers.
type UserStore interface {
	// Init applies the schema. With force set, existing user data is dropped first.
	Init(ctx context.Context, force bool) error
	CreateUser(ctx context.Context, account, passwordHash string) (int64, error)
	FindByAccount(ctx context.Context, account string) (models.User, error)
	// UpdateAboutMe returns the number of rows changed; zero means the account is unknown.
	UpdateAboutMe(ctx context.Context, account, aboutMe string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
