package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id                         BIGINT PRIMARY KEY,
    first_name                 TEXT NOT NULL DEFAULT '',
    last_name                  TEXT NOT NULL DEFAULT '',
    username                   TEXT NOT NULL DEFAULT '',
    language_code              TEXT NOT NULL DEFAULT '',
    created_at                 TIMESTAMPTZ NOT NULL DEFAULT now(),
    filled_requests_currencies BIGINT NOT NULL DEFAULT 0,
    filled_requests_stats      BIGINT NOT NULL DEFAULT 0
)`

// User is a registered API consumer with its request counters
type User struct {
	ID            int64
	FirstName     string
	LastName      string
	Username      string
	LanguageCode  string
	CreatedAt     time.Time
	QuoteRequests int64
	StatsRequests int64
}

// Store is the postgres-backed user registry
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new user store over the given connection pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
	}
}

// Connect opens a connection pool for the given DSN and verifies it
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open DB pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("unable to ping DB: %w", err)
	}

	return pool, nil
}

// Init creates the users table if it is not present
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("unable to initialize users table: %w", err)
	}

	return nil
}

// EnsureUser registers the user if it is not known yet.
// Existing rows, and their counters, are left untouched
func (s *Store) EnsureUser(ctx context.Context, user *User) error {
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO users (id, first_name, last_name, username, language_code)
	     VALUES ($1, $2, $3, $4, $5)
	     ON CONFLICT (id) DO NOTHING`,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.LanguageCode,
	)
	if err != nil {
		return fmt.Errorf("unable to save user: %w", err)
	}

	return nil
}

// RecordQuoteRequest bumps the user's quote request counter
func (s *Store) RecordQuoteRequest(ctx context.Context, userID int64) error {
	return s.bump(ctx, userID, "filled_requests_currencies")
}

// RecordStatsRequest bumps the user's statistics request counter
func (s *Store) RecordStatsRequest(ctx context.Context, userID int64) error {
	return s.bump(ctx, userID, "filled_requests_stats")
}

func (s *Store) bump(ctx context.Context, userID int64, column string) error {
	// The column name is one of two fixed values, never caller input
	query := fmt.Sprintf(
		`UPDATE users SET %s = %s + 1 WHERE id = $1`,
		column, column,
	)

	tag, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("unable to update user counter: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetUser fetches a single user by ID
func (s *Store) GetUser(ctx context.Context, userID int64) (*User, error) {
	var user User

	err := s.pool.QueryRow(
		ctx,
		`SELECT id, first_name, last_name, username, language_code,
	            created_at, filled_requests_currencies, filled_requests_stats
	     FROM users WHERE id = $1`,
		userID,
	).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.LanguageCode,
		&user.CreatedAt,
		&user.QuoteRequests,
		&user.StatsRequests,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("unable to fetch user: %w", err)
	}

	return &user, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() {
	s.pool.Close()
}
