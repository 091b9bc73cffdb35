package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/staffkit/staff-admin/internal/domain"
)

// RoleRepository manages role persistence.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	// DeleteUnused removes the role unless it is assigned to an employee, in
	// which case it returns *InUseError. Missing roles yield sql.ErrNoRows.
	DeleteUnused(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Role, error)
}

type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository constructs repository.
func NewRoleRepository(db *sql.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `INSERT INTO roles (nombre) VALUES ($1) RETURNING id`
	return r.db.QueryRowContext(ctx, query, role.Name).Scan(&role.ID)
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	const query = `UPDATE roles SET nombre = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, role.Name, role.ID)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

const roleUsageQuery = `SELECT COUNT(*) FROM empleado_rol WHERE rol_id = $1`

func (r *roleRepository) DeleteUnused(ctx context.Context, id int64) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, "roles", id, "UPDATE"); err != nil {
			return err
		}
		count, err := countUsage(ctx, tx, roleUsageQuery, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &InUseError{Count: count}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return errReferencedAtDelete
			}
			return err
		}
		return rowsAffected(res)
	})
	if errors.Is(err, errReferencedAtDelete) {
		return inUseAfterViolation(ctx, r.db, roleUsageQuery, id)
	}
	return err
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}
