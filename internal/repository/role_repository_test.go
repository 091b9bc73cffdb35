package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffkit/staff-admin/internal/domain"
)

func TestRoleRepository_CreateAndUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectQuery(q(`INSERT INTO roles (nombre) VALUES ($1) RETURNING id`)).
		WithArgs("Manager").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectExec(q(`UPDATE roles SET nombre = $1 WHERE id = $2`)).
		WithArgs("Senior Manager", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	role := &domain.Role{Name: "Manager"}
	require.NoError(t, repo.Create(context.Background(), role))
	assert.Equal(t, int64(4), role.ID)

	role.Name = "Senior Manager"
	require.NoError(t, repo.Update(context.Background(), role))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_DeleteUnused_CountsAssociations(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT id FROM roles WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectQuery(q(`SELECT COUNT(*) FROM empleado_rol WHERE rol_id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectRollback()

	count, inUse := IsInUse(repo.DeleteUnused(context.Background(), 4))
	assert.True(t, inUse)
	assert.Equal(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_DeleteUnused_Deletes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT id FROM roles WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectQuery(q(`SELECT COUNT(*) FROM empleado_rol WHERE rol_id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(q(`DELETE FROM roles WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteUnused(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_DeleteUnused_BeginFails(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err := repo.DeleteUnused(context.Background(), 4)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectQuery(q(`SELECT id, nombre FROM roles ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}).AddRow(int64(1), "Manager"))

	roles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{{ID: 1, Name: "Manager"}}, roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_DeleteUnused_ForeignKeyAtDeleteWithFailedRecount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT id FROM roles WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectQuery(q(`SELECT COUNT(*) FROM empleado_rol WHERE rol_id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(q(`DELETE FROM roles WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()
	mock.ExpectQuery(q(`SELECT COUNT(*) FROM empleado_rol WHERE rol_id = $1`)).
		WithArgs(int64(4)).
		WillReturnError(sql.ErrConnDone)

	count, inUse := IsInUse(repo.DeleteUnused(context.Background(), 4))
	require.True(t, inUse)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
