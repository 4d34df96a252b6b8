package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akulikov/go-shortlink/internal/middleware"
	"github.com/akulikov/go-shortlink/internal/storage"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated is returned when no valid session identity can
	// be resolved for a request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when an authenticated caller lacks the
	// admin role.
	ErrForbidden = errors.New("forbidden")

	// ErrUnknownRole is returned when a provisioning request names a role
	// outside the known set.
	ErrUnknownRole = errors.New("unknown role")
)

// SessionTTL is the client-side lifetime of the session cookie. There is no
// server-side expiry or revocation.
const SessionTTL = 7 * 24 * time.Hour

const bcryptCost = 10

// Identity is the authenticated identity resolved from a session.
type Identity struct {
	UserID string
	Role   string
}

// Auth verifies credentials, resolves session identities and provisions
// user accounts.
type Auth struct {
	users  UserStorage
	logger *zap.Logger
}

func NewAuth(users UserStorage, logger *zap.Logger) *Auth {
	return &Auth{
		users:  users,
		logger: logger,
	}
}

// Login verifies a username/password pair against the credential store.
// An unknown user and a wrong password yield the same error.
func (a *Auth) Login(ctx context.Context, username string, password string) (*storage.UserRecord, error) {
	user, err := a.users.FindUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Authenticate resolves a request-scoped user id against the credential
// store. The role is re-read on every call, so authorization decisions
// always reflect the current store state.
func (a *Auth) Authenticate(ctx context.Context, userID string) (*Identity, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	user, err := a.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return &Identity{UserID: user.ID, Role: user.Role}, nil
}

// Provision creates a new user account with the requested role. The caller
// must resolve to an admin identity. A username collision surfaces as
// storage.ErrUserExists so the boundary can collapse it with other store
// errors while tests stay able to tell them apart.
func (a *Auth) Provision(ctx context.Context, callerID string, username string, password string, role string) error {
	caller, err := a.Authenticate(ctx, callerID)
	if err != nil {
		return err
	}

	if caller.Role != storage.RoleAdmin {
		return ErrForbidden
	}

	if !storage.KnownRole(role) {
		return ErrUnknownRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	_, err = a.users.CreateUser(ctx, storage.UserRecord{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return err
	}

	a.logger.Info("user provisioned",
		zap.String("username", username),
		zap.String("role", role))
	return nil
}

// EnsureAdmin seeds the admin account on startup. An existing user with the
// given name is left untouched.
func (a *Auth) EnsureAdmin(ctx context.Context, username string, password string) error {
	_, err := a.users.FindUserByName(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	_, err = a.users.CreateUser(ctx, storage.UserRecord{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         storage.RoleAdmin,
	})
	if errors.Is(err, storage.ErrUserExists) {
		return nil
	}
	return err
}

// SessionCookie builds the session cookie issued on login. The value is the
// raw user id; HttpOnly keeps it away from scripts and Secure is set
// whenever the server runs behind TLS.
func SessionCookie(userID string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    userID,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
	}
}
