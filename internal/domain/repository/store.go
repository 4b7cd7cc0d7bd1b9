package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pencraft/internal/common"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store groups the per-entity repositories over one backend.
type Store interface {
	Users() UserRepository
	Writings() WritingRepository
	Comments() CommentRepository
	Likes() LikeRepository
	Bookmarks() BookmarkRepository
	Follows() FollowRepository
	Challenges() ChallengeRepository
	Entries() ChallengeEntryRepository
	Notifications() NotificationRepository

	// WithTx runs fn against a transactional view of the store. Writes made
	// through that view are discarded when fn returns an error.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	Close() error
}

type sqlStore struct {
	db   *sqlx.DB
	q    sqlx.ExtContext
	inTx bool
}

// NewSQLStore wraps an open Postgres ("pgx") or SQLite ("sqlite") handle.
func NewSQLStore(db *sqlx.DB) Store {
	return &sqlStore{db: db, q: db}
}

func (s *sqlStore) Users() UserRepository                { return &sqlUserRepository{q: s.q} }
func (s *sqlStore) Writings() WritingRepository          { return &sqlWritingRepository{q: s.q} }
func (s *sqlStore) Comments() CommentRepository          { return &sqlCommentRepository{q: s.q} }
func (s *sqlStore) Likes() LikeRepository                { return &sqlLikeRepository{q: s.q} }
func (s *sqlStore) Bookmarks() BookmarkRepository        { return &sqlBookmarkRepository{q: s.q} }
func (s *sqlStore) Follows() FollowRepository            { return &sqlFollowRepository{q: s.q} }
func (s *sqlStore) Challenges() ChallengeRepository      { return &sqlChallengeRepository{q: s.q} }
func (s *sqlStore) Entries() ChallengeEntryRepository    { return &sqlChallengeEntryRepository{q: s.q} }
func (s *sqlStore) Notifications() NotificationRepository { return &sqlNotificationRepository{q: s.q} }

func (s *sqlStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := fn(&sqlStore{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// Migrate creates the tables and unique indexes for the handle's driver.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var ddl string
	switch db.DriverName() {
	case "pgx", "postgres":
		ddl = postgresSchema
	case "sqlite":
		ddl = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", db.DriverName())
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// now is the timestamp written by inserts and updates.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// insertReturningID runs an INSERT ... RETURNING id written with ? placeholders.
func insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := sqlx.GetContext(ctx, q, &id, q.Rebind(query), args...); err != nil {
		return 0, err
	}
	return id, nil
}

func getOne(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	err := sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	return err
}

func selectAll(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func count(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, q.Rebind(query), args...)
	return n, err
}

func execAffected(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// wrapWriteErr turns unique constraint violations into common.ErrConflict.
func wrapWriteErr(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, common.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}
