package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/akulikov/go-shortlink/internal/storage"
)

// Helper to set up a mock DB and repositories
func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *LinkRepository, *UserRepository) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	links := CreateLinkRepository(db, zap.NewNop())
	users := CreateUserRepository(db, zap.NewNop())
	return mock, links, users
}

func TestWriteLink(t *testing.T) {
	mock, links, _ := setupMockDB(t)

	record := storage.LinkRecord{
		Code:      "abc123",
		Original:  "https://example.com",
		CreatedBy: "user-id-123",
	}

	mock.ExpectExec(`INSERT INTO links`).
		WithArgs(record.Code, record.Original, record.CreatedBy).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := links.WriteLink(context.Background(), record)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, record.Code, result.Code)
	assert.Equal(t, record.Original, result.Original)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteLinkConflict(t *testing.T) {
	mock, links, _ := setupMockDB(t)

	record := storage.LinkRecord{
		Code:      "zzz999",
		Original:  "https://example.com",
		CreatedBy: "user-id-456",
	}

	// Insert affects no rows, then the existing record is fetched.
	mock.ExpectExec(`INSERT INTO links`).
		WithArgs(record.Code, record.Original, record.CreatedBy).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(`SELECT short_code, original_url, created_by, visits FROM links WHERE original_url = \$1;`).
		WithArgs(record.Original).
		WillReturnRows(sqlmock.NewRows([]string{"short_code", "original_url", "created_by", "visits"}).
			AddRow("abc123", record.Original, "user-id-123", 5))

	result, err := links.WriteLink(context.Background(), record)

	assert.ErrorIs(t, err, storage.ErrConflict)
	assert.NotNil(t, result)
	assert.Equal(t, "abc123", result.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteLinkCodeCollision(t *testing.T) {
	mock, links, _ := setupMockDB(t)

	record := storage.LinkRecord{
		Code:      "abc123",
		Original:  "https://example.org",
		CreatedBy: "user-id-123",
	}

	mock.ExpectExec(`INSERT INTO links`).
		WithArgs(record.Code, record.Original, record.CreatedBy).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := links.WriteLink(context.Background(), record)

	assert.ErrorIs(t, err, storage.ErrCodeTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveLink(t *testing.T) {
	mock, links, _ := setupMockDB(t)

	mock.ExpectQuery(`UPDATE links SET visits = visits \+ 1 WHERE short_code = \$1 RETURNING original_url;`).
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"original_url"}).AddRow("https://example.com"))

	original, err := links.ResolveLink(context.Background(), "abc123")

	assert.NoError(t, err)
	assert.Equal(t, "https://example.com", original)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveLinkNotFound(t *testing.T) {
	mock, links, _ := setupMockDB(t)

	mock.ExpectQuery(`UPDATE links SET visits = visits \+ 1 WHERE short_code = \$1 RETURNING original_url;`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := links.ResolveLink(context.Background(), "missing")

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveLinkDBError(t *testing.T) {
	mock, links, _ := setupMockDB(t)

	mock.ExpectQuery(`UPDATE links SET visits = visits \+ 1`).
		WithArgs("abc123").
		WillReturnError(errors.New("connection refused"))

	_, err := links.ResolveLink(context.Background(), "abc123")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByCode(t *testing.T) {
	mock, links, _ := setupMockDB(t)

	mock.ExpectQuery(`SELECT short_code, original_url, created_by, visits FROM links WHERE short_code = \$1;`).
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"short_code", "original_url", "created_by", "visits"}).
			AddRow("abc123", "https://example.com", "user-id-123", 2))

	result, err := links.FindByCode(context.Background(), "abc123")

	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.Visits)
	assert.Equal(t, "user-id-123", result.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser(t *testing.T) {
	mock, _, users := setupMockDB(t)

	record := storage.UserRecord{
		ID:           "id-1",
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		Role:         storage.RoleAdmin,
	}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(record.ID, record.Username, record.PasswordHash, record.Role).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := users.CreateUser(context.Background(), record)

	assert.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicate(t *testing.T) {
	mock, _, users := setupMockDB(t)

	record := storage.UserRecord{
		ID:       "id-2",
		Username: "alice",
		Role:     storage.RoleUser,
	}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(record.ID, record.Username, record.PasswordHash, record.Role).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := users.CreateUser(context.Background(), record)

	assert.ErrorIs(t, err, storage.ErrUserExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByName(t *testing.T) {
	mock, _, users := setupMockDB(t)

	mock.ExpectQuery(`SELECT id, username, password_hash, role FROM users WHERE username = \$1;`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role"}).
			AddRow("id-1", "alice", "$2a$10$hash", "admin"))

	result, err := users.FindUserByName(context.Background(), "alice")

	assert.NoError(t, err)
	assert.Equal(t, "id-1", result.ID)
	assert.Equal(t, storage.RoleAdmin, result.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByIDNotFound(t *testing.T) {
	mock, _, users := setupMockDB(t)

	mock.ExpectQuery(`SELECT id, username, password_hash, role FROM users WHERE id = \$1;`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := users.FindUserByID(context.Background(), "missing")

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
