// Package repository implements PostgreSQL-backed storage for links and
// user credentials.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/akulikov/go-shortlink/internal/storage"
)

// InitDB opens the database and makes sure the schema exists.
func InitDB(ps string, logger *zap.Logger) *sql.DB {
	db, err := sql.Open("pgx", ps)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	createTables := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user'
		);
		CREATE TABLE IF NOT EXISTS links (
			short_code TEXT PRIMARY KEY,
			original_url TEXT UNIQUE NOT NULL,
			created_by UUID,
			visits BIGINT NOT NULL DEFAULT 0
		);`

	if _, err = db.Exec(createTables); err != nil {
		logger.Fatal("cannot create tables", zap.Error(err))
	}

	return db
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// LinkRepository persists link records.
type LinkRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreateLinkRepository(db *sql.DB, logger *zap.Logger) *LinkRepository {
	return &LinkRepository{
		db:     db,
		logger: logger,
	}
}

// WriteLink inserts a new link row. The unique constraint on original_url
// closes the check-then-insert race: when the URL is already shortened the
// insert affects no rows and the existing record is returned together with
// storage.ErrConflict. A short-code collision surfaces as
// storage.ErrCodeTaken and is not retried.
func (r *LinkRepository) WriteLink(ctx context.Context, v storage.LinkRecord) (*storage.LinkRecord, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO links(short_code, original_url, created_by) VALUES ($1, $2, $3) ON CONFLICT (original_url) DO NOTHING;",
		v.Code, v.Original, v.CreatedBy,
	)

	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn("short code collision", zap.String("code", v.Code))
			return nil, storage.ErrCodeTaken
		}
		r.logger.Error("link insert failed", zap.Error(err))
		return nil, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		existing, err := r.FindByOriginal(ctx, v.Original)
		if err != nil {
			return nil, err
		}
		return existing, storage.ErrConflict
	}

	inserted := v
	return &inserted, nil
}

// ResolveLink increments the visit counter of the row matching code and
// returns its original URL in the same statement, so the increment and the
// fetch cannot observe different rows.
func (r *LinkRepository) ResolveLink(ctx context.Context, code string) (string, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE links SET visits = visits + 1 WHERE short_code = $1 RETURNING original_url;",
		code,
	)

	var original string
	if err := row.Scan(&original); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		r.logger.Error("visit update failed", zap.Error(err))
		return "", err
	}

	return original, nil
}

func (r *LinkRepository) FindByCode(ctx context.Context, code string) (*storage.LinkRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT short_code, original_url, created_by, visits FROM links WHERE short_code = $1;",
		code,
	)

	return scanLink(row)
}

func (r *LinkRepository) FindByOriginal(ctx context.Context, original string) (*storage.LinkRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT short_code, original_url, created_by, visits FROM links WHERE original_url = $1;",
		original,
	)

	return scanLink(row)
}

func scanLink(row *sql.Row) (*storage.LinkRecord, error) {
	var record storage.LinkRecord
	var createdBy sql.NullString

	err := row.Scan(&record.Code, &record.Original, &createdBy, &record.Visits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	record.CreatedBy = createdBy.String
	return &record, nil
}

func (r *LinkRepository) PingContext(c context.Context) error {
	return r.db.PingContext(c)
}

// UserRepository persists user credentials.
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreateUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser inserts a new user row. A username collision is reported as
// storage.ErrUserExists.
func (r *UserRepository) CreateUser(ctx context.Context, v storage.UserRecord) (*storage.UserRecord, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users(id, username, password_hash, role) VALUES ($1, $2, $3, $4);",
		v.ID, v.Username, v.PasswordHash, v.Role,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrUserExists
		}
		r.logger.Error("user insert failed", zap.Error(err))
		return nil, err
	}

	inserted := v
	return &inserted, nil
}

func (r *UserRepository) FindUserByName(ctx context.Context, username string) (*storage.UserRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role FROM users WHERE username = $1;",
		username,
	)

	return scanUser(row)
}

func (r *UserRepository) FindUserByID(ctx context.Context, id string) (*storage.UserRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role FROM users WHERE id = $1;",
		id,
	)

	return scanUser(row)
}

func scanUser(row *sql.Row) (*storage.UserRecord, error) {
	var record storage.UserRecord

	err := row.Scan(&record.ID, &record.Username, &record.PasswordHash, &record.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	return &record, nil
}
