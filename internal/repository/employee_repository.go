package repository

import (
	"context"
	"database/sql"
	"errors"
	"slices"

	"github.com/staffkit/staff-admin/internal/domain"
)

// EmployeeRepository handles persistence for employees and their role
// associations. Every write runs in a single transaction.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.EmployeeSummary, error)
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO empleados (nombre, email, sexo, area_id, boletin, descripcion)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`

	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockReferences(ctx, tx, emp.AreaID, emp.Roles); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, query,
			emp.Name,
			emp.Email,
			string(emp.Sex),
			emp.AreaID,
			emp.Subscribed,
			emp.Description,
		).Scan(&id); err != nil {
			return mapReferenceViolation(err, emp)
		}
		return insertRoles(ctx, tx, id, emp.Roles)
	})
	if err != nil {
		return err
	}
	emp.ID = id
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	const query = `
        UPDATE empleados
        SET nombre=$1, email=$2, sexo=$3, area_id=$4, boletin=$5, descripcion=$6
        WHERE id=$7`

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, "empleados", emp.ID, "UPDATE"); err != nil {
			return err
		}
		if err := lockReferences(ctx, tx, emp.AreaID, emp.Roles); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query,
			emp.Name,
			emp.Email,
			string(emp.Sex),
			emp.AreaID,
			emp.Subscribed,
			emp.Description,
			emp.ID,
		)
		if err != nil {
			return mapReferenceViolation(err, emp)
		}
		if err := rowsAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM empleado_rol WHERE empleado_id = $1`, emp.ID); err != nil {
			return err
		}
		return insertRoles(ctx, tx, emp.ID, emp.Roles)
	})
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM empleado_rol WHERE empleado_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM empleados WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return rowsAffected(res)
	})
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	const query = `
        SELECT id, nombre, email, sexo, area_id, boletin, descripcion
        FROM empleados WHERE id = $1`

	var emp domain.Employee
	err := withSnapshot(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, query, id).Scan(
			&emp.ID,
			&emp.Name,
			&emp.Email,
			&emp.Sex,
			&emp.AreaID,
			&emp.Subscribed,
			&emp.Description,
		); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `SELECT rol_id FROM empleado_rol WHERE empleado_id = $1 ORDER BY rol_id`, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		emp.Roles = []int64{}
		for rows.Next() {
			var roleID int64
			if err := rows.Scan(&roleID); err != nil {
				return err
			}
			emp.Roles = append(emp.Roles, roleID)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.EmployeeSummary, error) {
	const query = `
        SELECT e.id, e.nombre, e.email, e.sexo, a.nombre, e.boletin, e.descripcion
        FROM empleados e
        JOIN areas a ON a.id = e.area_id
        ORDER BY e.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.EmployeeSummary{}
	for rows.Next() {
		var emp domain.EmployeeSummary
		if err := rows.Scan(
			&emp.ID,
			&emp.Name,
			&emp.Email,
			&emp.Sex,
			&emp.AreaName,
			&emp.Subscribed,
			&emp.Description,
		); err != nil {
			return nil, err
		}
		result = append(result, emp)
	}
	return result, rows.Err()
}

// lockReferences share-locks the referenced area and roles so a concurrent
// DeleteUnused cannot remove them before the transaction commits. Roles are
// locked in ascending id order.
func lockReferences(ctx context.Context, tx *sql.Tx, areaID int64, roles []int64) error {
	if err := lockRow(ctx, tx, "areas", areaID, "SHARE"); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &MissingReferenceError{Entity: EntityArea, ID: areaID}
		}
		return err
	}
	ordered := slices.Clone(roles)
	slices.Sort(ordered)
	for _, roleID := range slices.Compact(ordered) {
		if err := lockRow(ctx, tx, "roles", roleID, "SHARE"); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &MissingReferenceError{Entity: EntityRole, ID: roleID}
			}
			return err
		}
	}
	return nil
}

// insertRoles links each distinct role once, in ascending id order.
func insertRoles(ctx context.Context, tx *sql.Tx, employeeID int64, roles []int64) error {
	for _, roleID := range slices.Compact(slices.Sorted(slices.Values(roles))) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO empleado_rol (empleado_id, rol_id) VALUES ($1, $2)`,
			employeeID, roleID,
		); err != nil {
			if isForeignKeyViolation(err) {
				return &MissingReferenceError{Entity: EntityRole, ID: roleID}
			}
			return err
		}
	}
	return nil
}

func mapReferenceViolation(err error, emp *domain.Employee) error {
	if isForeignKeyViolation(err) {
		return &MissingReferenceError{Entity: EntityArea, ID: emp.AreaID}
	}
	return err
}
