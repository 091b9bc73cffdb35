package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffkit/staff-admin/internal/domain"
)

func TestMemoryStore_ReferenceRules(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	finance := &domain.Area{Name: "Finance"}
	require.NoError(t, store.Areas().Create(ctx, finance))
	manager := &domain.Role{Name: "Manager"}
	require.NoError(t, store.Roles().Create(ctx, manager))
	analyst := &domain.Role{Name: "Analyst"}
	require.NoError(t, store.Roles().Create(ctx, analyst))

	emp := &domain.Employee{
		Name:   "Ana Lopez",
		Email:  "ana@example.com",
		Sex:    domain.SexFemale,
		AreaID: finance.ID,
		Roles:  []int64{analyst.ID, manager.ID},
	}
	require.NoError(t, store.Employees().Create(ctx, emp))
	assert.Equal(t, int64(1), emp.ID)

	count, inUse := IsInUse(store.Areas().DeleteUnused(ctx, finance.ID))
	assert.True(t, inUse)
	assert.Equal(t, 1, count)

	count, inUse = IsInUse(store.Roles().DeleteUnused(ctx, manager.ID))
	assert.True(t, inUse)
	assert.Equal(t, 1, count)

	got, err := store.Employees().GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{manager.ID, analyst.ID}, got.Roles)

	list, err := store.Employees().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Finance", list[0].AreaName)

	require.NoError(t, store.Employees().Delete(ctx, emp.ID))
	require.NoError(t, store.Roles().DeleteUnused(ctx, manager.ID))
	require.NoError(t, store.Areas().DeleteUnused(ctx, finance.ID))
}

func TestMemoryStore_MissingReferencesLeaveNoRow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	area := &domain.Area{Name: "Sales"}
	require.NoError(t, store.Areas().Create(ctx, area))

	err := store.Employees().Create(ctx, &domain.Employee{Name: "X", AreaID: area.ID, Roles: []int64{9}})
	var missing *MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, EntityRole, missing.Entity)
	assert.Equal(t, int64(9), missing.ID)

	err = store.Employees().Create(ctx, &domain.Employee{Name: "X", AreaID: 77})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, EntityArea, missing.Entity)

	list, err := store.Employees().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryStore_MissingRowsReturnErrNoRows(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.ErrorIs(t, store.Areas().Update(ctx, &domain.Area{ID: 1, Name: "A"}), sql.ErrNoRows)
	assert.ErrorIs(t, store.Roles().DeleteUnused(ctx, 1), sql.ErrNoRows)
	assert.ErrorIs(t, store.Employees().Delete(ctx, 1), sql.ErrNoRows)
	_, err := store.Employees().GetByID(ctx, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
