package service

import (
	"context"

	"github.com/akulikov/go-shortlink/internal/storage"
)

//go:generate mockgen -destination=../../mocks/storage_mock.go -package=mocks github.com/akulikov/go-shortlink/internal/app/service LinkStorage,UserStorage

// LinkStorage is the persistence contract of the link table.
type LinkStorage interface {
	WriteLink(context.Context, storage.LinkRecord) (*storage.LinkRecord, error)
	ResolveLink(context.Context, string) (string, error)
	FindByCode(context.Context, string) (*storage.LinkRecord, error)
	FindByOriginal(context.Context, string) (*storage.LinkRecord, error)
	PingContext(context.Context) error
}

// UserStorage is the persistence contract of the credential store.
type UserStorage interface {
	CreateUser(context.Context, storage.UserRecord) (*storage.UserRecord, error)
	FindUserByName(context.Context, string) (*storage.UserRecord, error)
	FindUserByID(context.Context, string) (*storage.UserRecord, error)
}

// URLServiceIface is the shortening surface consumed by the handlers.
type URLServiceIface interface {
	Shorten(ctx context.Context, original string, userID string) (*ShortenResult, error)
	Resolve(ctx context.Context, code string) (string, error)
	PingContext(ctx context.Context) error
}

// AuthIface is the authentication surface consumed by the handlers.
type AuthIface interface {
	Login(ctx context.Context, username string, password string) (*storage.UserRecord, error)
	Authenticate(ctx context.Context, userID string) (*Identity, error)
	Provision(ctx context.Context, callerID string, username string, password string, role string) error
}
