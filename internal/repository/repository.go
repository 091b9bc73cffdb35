package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgForeignKeyViolation = "23503"

// InUseError reports that a row cannot be deleted while other rows reference
// it. Count is zero when the number of references is unknown.
type InUseError struct {
	Count int
}

func (e *InUseError) Error() string {
	if e.Count == 0 {
		return "referenced by employees"
	}
	return fmt.Sprintf("referenced by %d employee(s)", e.Count)
}

// errReferencedAtDelete marks a DELETE rejected by a foreign key after the
// usage count found no references.
var errReferencedAtDelete = errors.New("referenced at delete")

// inUseAfterViolation recounts references on db once the transaction that hit
// the foreign key has been rolled back.
func inUseAfterViolation(ctx context.Context, db *sql.DB, query string, id int64) error {
	count, err := countUsage(ctx, db, query, id)
	if err != nil {
		count = 0
	}
	return &InUseError{Count: count}
}

// UsageCheckError wraps a failure of the reference-count query itself.
type UsageCheckError struct {
	Err error
}

func (e *UsageCheckError) Error() string {
	return fmt.Sprintf("usage check: %v", e.Err)
}

func (e *UsageCheckError) Unwrap() error { return e.Err }

// MissingReferenceError reports that an employee points at an area or role
// that does not exist.
type MissingReferenceError struct {
	Entity string
	ID     int64
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Entity, e.ID)
}

// Referenced entity names carried by MissingReferenceError.
const (
	EntityArea = "area"
	EntityRole = "role"
)

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction, committing on success and rolling back on
// any error.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	return runTx(ctx, db, nil, fn)
}

// withSnapshot runs fn in a read-only repeatable-read transaction so every
// statement in fn sees the same snapshot.
func withSnapshot(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	return runTx(ctx, db, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func runTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// lockRow takes a row lock on id in table, returning sql.ErrNoRows when the
// row does not exist. mode is "UPDATE" or "SHARE".
func lockRow(ctx context.Context, q queryRower, table string, id int64, mode string) error {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 FOR %s`, table, mode)
	var found int64
	return q.QueryRowContext(ctx, query, id).Scan(&found)
}

// countUsage runs a COUNT(*) reference query; failures come back as
// *UsageCheckError.
func countUsage(ctx context.Context, q queryRower, query string, id int64) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, &UsageCheckError{Err: err}
	}
	return count, nil
}

func rowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// IsInUse extracts the reference count from an *InUseError.
func IsInUse(err error) (int, bool) {
	var inUse *InUseError
	if errors.As(err, &inUse) {
		return inUse.Count, true
	}
	return 0, false
}
