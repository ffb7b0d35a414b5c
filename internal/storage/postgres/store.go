package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hongminglow/aolserver/internal/models"
	"github.com/hongminglow/aolserver/internal/storage"
	"github.com/hongminglow/aolserver/internal/storage/migrations"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users.
type Store struct {
	pool       *pgxpool.Pool
	sqlDB      *sql.DB
	migrations *migrations.Runner
}

// NewUserStore creates a new Store and runs migrations.
func NewUserStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// goose needs database/sql; share the pool rather than dialing twice.
	sqlDB := stdlib.OpenDBFromPool(pool)
	runner, err := migrations.NewRunner(goose.DialectPostgres, sqlDB)
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return nil, err
	}

	s := &Store{pool: pool, sqlDB: sqlDB, migrations: runner}
	if err := s.Init(ctx, false); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	var err error
	if s.sqlDB != nil {
		err = s.sqlDB.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Init applies the schema, dropping all users first when force is set.
func (s *Store) Init(ctx context.Context, force bool) error {
	return s.migrations.Apply(ctx, force)
}

// CreateUser inserts a new user row and returns its id.
func (s *Store) CreateUser(ctx context.Context, account, passwordHash string) (int64, error) {
	const query = `INSERT INTO users (account, password_hash) VALUES ($1, $2) RETURNING id`
	var id int64
	if err := s.pool.QueryRow(ctx, query, account, passwordHash).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, storage.ErrDuplicateAccount
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// FindByAccount fetches a user by account name.
func (s *Store) FindByAccount(ctx context.Context, account string) (models.User, error) {
	const query = `SELECT id, account, password_hash, about_me FROM users WHERE account = $1`
	row := s.pool.QueryRow(ctx, query, account)
	return scanUser(row)
}

// UpdateAboutMe overwrites the profile text and reports how many rows changed.
func (s *Store) UpdateAboutMe(ctx context.Context, account, aboutMe string) (int64, error) {
	const query = `UPDATE users SET about_me = $1 WHERE account = $2`
	tag, err := s.pool.Exec(ctx, query, aboutMe, account)
	if err != nil {
		return 0, fmt.Errorf("update about_me: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Account, &user.PasswordHash, &user.AboutMe); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}
