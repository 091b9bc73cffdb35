package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/staffkit/staff-admin/internal/domain"
)

// AreaRepository manages area persistence.
type AreaRepository interface {
	Create(ctx context.Context, area *domain.Area) error
	Update(ctx context.Context, area *domain.Area) error
	// DeleteUnused removes the area unless an employee references it, in which
	// case it returns *InUseError. Missing areas yield sql.ErrNoRows.
	DeleteUnused(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Area, error)
}

type areaRepository struct {
	db *sql.DB
}

// NewAreaRepository builds the repository.
func NewAreaRepository(db *sql.DB) AreaRepository {
	return &areaRepository{db: db}
}

func (r *areaRepository) Create(ctx context.Context, area *domain.Area) error {
	const query = `INSERT INTO areas (nombre) VALUES ($1) RETURNING id`
	return r.db.QueryRowContext(ctx, query, area.Name).Scan(&area.ID)
}

func (r *areaRepository) Update(ctx context.Context, area *domain.Area) error {
	const query = `UPDATE areas SET nombre = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, area.Name, area.ID)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

const areaUsageQuery = `SELECT COUNT(*) FROM empleados WHERE area_id = $1`

func (r *areaRepository) DeleteUnused(ctx context.Context, id int64) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, "areas", id, "UPDATE"); err != nil {
			return err
		}
		count, err := countUsage(ctx, tx, areaUsageQuery, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &InUseError{Count: count}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return errReferencedAtDelete
			}
			return err
		}
		return rowsAffected(res)
	})
	if errors.Is(err, errReferencedAtDelete) {
		return inUseAfterViolation(ctx, r.db, areaUsageQuery, id)
	}
	return err
}

func (r *areaRepository) List(ctx context.Context) ([]domain.Area, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre FROM areas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Area{}
	for rows.Next() {
		var area domain.Area
		if err := rows.Scan(&area.ID, &area.Name); err != nil {
			return nil, err
		}
		result = append(result, area)
	}
	return result, rows.Err()
}
