package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Stores exposes every repository bound to one connection or transaction.
type Stores interface {
	Messages() MessageRepository
	Tasks() TaskRepository
	Teams() TeamRepository
	Users() UserRepository
	EmailLogs() EmailLogRepository
}

type stores struct {
	db DBTX
}

func NewStores(db DBTX) Stores {
	return &stores{db: db}
}

func (s *stores) Messages() MessageRepository {
	return NewMessageRepository(s.db)
}

func (s *stores) Tasks() TaskRepository {
	return NewTaskRepository(s.db)
}

func (s *stores) Teams() TeamRepository {
	return NewTeamRepository(s.db)
}

func (s *stores) Users() UserRepository {
	return NewUserRepository(s.db)
}

func (s *stores) EmailLogs() EmailLogRepository {
	return NewEmailLogRepository(s.db)
}

// TxRunner runs fn with stores bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(s Stores) error) error
}

type sqlTxRunner struct {
	db *sql.DB
}

func NewTxRunner(db *sql.DB) TxRunner {
	return &sqlTxRunner{db: db}
}

func (r *sqlTxRunner) WithTx(ctx context.Context, fn func(s Stores) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(NewStores(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
