package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/hongminglow/aolserver/internal/models"
	"github.com/hongminglow/aolserver/internal/storage"
	"github.com/hongminglow/aolserver/internal/storage/migrations"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

const memoryPath = ":memory:"

// Store provides SQLite-backed persistence for users.
type Store struct {
	db         *sql.DB
	migrations *migrations.Runner
}

// NewUserStore opens (creating if needed) the database file at path and
// applies the schema without touching existing rows.
func NewUserStore(ctx context.Context, path string) (*Store, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == memoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	runner, err := migrations.NewRunner(goose.DialectSQLite3, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, migrations: runner}
	if err := s.Init(ctx, false); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func dsn(path string) string {
	// Concurrent writers wait on the file lock instead of failing with SQLITE_BUSY.
	return path + "?_timeout=5000"
}

// Close releases database resources.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Init applies the schema, dropping all users first when force is set.
func (s *Store) Init(ctx context.Context, force bool) error {
	return s.migrations.Apply(ctx, force)
}

// CreateUser inserts a new user row and returns its id.
func (s *Store) CreateUser(ctx context.Context, account, passwordHash string) (int64, error) {
	const query = `INSERT INTO users (account, password_hash) VALUES (?, ?)`
	res, err := s.db.ExecContext(ctx, query, account, passwordHash)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, storage.ErrDuplicateAccount
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

// FindByAccount fetches a user by account name.
func (s *Store) FindByAccount(ctx context.Context, account string) (models.User, error) {
	const query = `SELECT id, account, password_hash, about_me FROM users WHERE account = ?`
	var user models.User
	var aboutMe sql.NullString
	err := s.db.QueryRowContext(ctx, query, account).Scan(&user.ID, &user.Account, &user.PasswordHash, &aboutMe)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	// Tables created by older deployments allow a NULL about_me.
	user.AboutMe = aboutMe.String
	return user, nil
}

// UpdateAboutMe overwrites the profile text and reports how many rows changed.
func (s *Store) UpdateAboutMe(ctx context.Context, account, aboutMe string) (int64, error) {
	const query = `UPDATE users SET about_me = ? WHERE account = ?`
	res, err := s.db.ExecContext(ctx, query, aboutMe, account)
	if err != nil {
		return 0, fmt.Errorf("update about_me: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read affected rows: %w", err)
	}
	return n, nil
}
