package repository

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/staffkit/staff-admin/internal/domain"
)

// MemoryStore keeps areas, roles and employees in process memory behind a
// single lock. It enforces the same reference rules as the Postgres
// repositories and backs `serve --store memory` and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	areas     map[int64]domain.Area
	roles     map[int64]domain.Role
	employees map[int64]domain.Employee
	nextArea  int64
	nextRole  int64
	nextEmp   int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		areas:     make(map[int64]domain.Area),
		roles:     make(map[int64]domain.Role),
		employees: make(map[int64]domain.Employee),
	}
}

// Areas returns an AreaRepository view of the store.
func (s *MemoryStore) Areas() AreaRepository { return memoryAreas{s} }

// Roles returns a RoleRepository view of the store.
func (s *MemoryStore) Roles() RoleRepository { return memoryRoles{s} }

// Employees returns an EmployeeRepository view of the store.
func (s *MemoryStore) Employees() EmployeeRepository { return memoryEmployees{s} }

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type memoryAreas struct{ s *MemoryStore }

func (r memoryAreas) Create(_ context.Context, area *domain.Area) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextArea++
	area.ID = r.s.nextArea
	r.s.areas[area.ID] = *area
	return nil
}

func (r memoryAreas) Update(_ context.Context, area *domain.Area) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.areas[area.ID]; !ok {
		return sql.ErrNoRows
	}
	r.s.areas[area.ID] = *area
	return nil
}

func (r memoryAreas) DeleteUnused(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.areas[id]; !ok {
		return sql.ErrNoRows
	}
	count := 0
	for _, emp := range r.s.employees {
		if emp.AreaID == id {
			count++
		}
	}
	if count > 0 {
		return &InUseError{Count: count}
	}
	delete(r.s.areas, id)
	return nil
}

func (r memoryAreas) List(_ context.Context) ([]domain.Area, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Area, 0, len(r.s.areas))
	for _, id := range sortedKeys(r.s.areas) {
		result = append(result, r.s.areas[id])
	}
	return result, nil
}

type memoryRoles struct{ s *MemoryStore }

func (r memoryRoles) Create(_ context.Context, role *domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextRole++
	role.ID = r.s.nextRole
	r.s.roles[role.ID] = *role
	return nil
}

func (r memoryRoles) Update(_ context.Context, role *domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[role.ID]; !ok {
		return sql.ErrNoRows
	}
	r.s.roles[role.ID] = *role
	return nil
}

func (r memoryRoles) DeleteUnused(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[id]; !ok {
		return sql.ErrNoRows
	}
	count := 0
	for _, emp := range r.s.employees {
		if slices.Contains(emp.Roles, id) {
			count++
		}
	}
	if count > 0 {
		return &InUseError{Count: count}
	}
	delete(r.s.roles, id)
	return nil
}

func (r memoryRoles) List(_ context.Context) ([]domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Role, 0, len(r.s.roles))
	for _, id := range sortedKeys(r.s.roles) {
		result = append(result, r.s.roles[id])
	}
	return result, nil
}

type memoryEmployees struct{ s *MemoryStore }

// checkReferences must be called with the lock held.
func (r memoryEmployees) checkReferences(emp *domain.Employee) error {
	if _, ok := r.s.areas[emp.AreaID]; !ok {
		return &MissingReferenceError{Entity: EntityArea, ID: emp.AreaID}
	}
	ordered := slices.Clone(emp.Roles)
	slices.Sort(ordered)
	for _, roleID := range ordered {
		if _, ok := r.s.roles[roleID]; !ok {
			return &MissingReferenceError{Entity: EntityRole, ID: roleID}
		}
	}
	return nil
}

func (r memoryEmployees) store(emp *domain.Employee) {
	stored := *emp
	stored.Roles = slices.Compact(slices.Sorted(slices.Values(emp.Roles)))
	r.s.employees[emp.ID] = stored
}

func (r memoryEmployees) Create(_ context.Context, emp *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkReferences(emp); err != nil {
		return err
	}
	r.s.nextEmp++
	emp.ID = r.s.nextEmp
	r.store(emp)
	return nil
}

func (r memoryEmployees) Update(_ context.Context, emp *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[emp.ID]; !ok {
		return sql.ErrNoRows
	}
	if err := r.checkReferences(emp); err != nil {
		return err
	}
	r.store(emp)
	return nil
}

func (r memoryEmployees) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.s.employees, id)
	return nil
}

func (r memoryEmployees) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	emp, ok := r.s.employees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	emp.Roles = append([]int64{}, emp.Roles...)
	return &emp, nil
}

func (r memoryEmployees) List(_ context.Context) ([]domain.EmployeeSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.EmployeeSummary, 0, len(r.s.employees))
	for _, id := range sortedKeys(r.s.employees) {
		emp := r.s.employees[id]
		result = append(result, domain.EmployeeSummary{
			ID:          emp.ID,
			Name:        emp.Name,
			Email:       emp.Email,
			Sex:         emp.Sex,
			AreaName:    r.s.areas[emp.AreaID].Name,
			Subscribed:  emp.Subscribed,
			Description: emp.Description,
		})
	}
	return result, nil
}
