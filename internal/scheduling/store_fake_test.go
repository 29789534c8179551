package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

// fakeStore 是基于内存 map 的 Store/Transactor 实现，仅用于测试。
// 单测内没有并发，WithEmployeeLock 直接执行回调。
type fakeStore struct {
	windows     map[int64]*domain.ShiftWindow
	assignments map[int64]*domain.ShiftAssignment
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		windows:     make(map[int64]*domain.ShiftWindow),
		assignments: make(map[int64]*domain.ShiftAssignment),
		nextID:      1,
	}
}

func (f *fakeStore) addWindow(window *domain.ShiftWindow) *domain.ShiftWindow {
	if window.ID == 0 {
		window.ID = f.nextID
		f.nextID++
	}
	f.windows[window.ID] = window
	return window
}

func (f *fakeStore) addAssignment(assignment *domain.ShiftAssignment) *domain.ShiftAssignment {
	if assignment.ID == 0 {
		assignment.ID = f.nextID
		f.nextID++
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now()
	}
	assignment.Window = nil
	f.assignments[assignment.ID] = assignment
	return assignment
}

// cloneAssignment 返回附带已解析时段的副本，模拟 repository 的联表查询。
func (f *fakeStore) cloneAssignment(assignment *domain.ShiftAssignment) *domain.ShiftAssignment {
	clone := *assignment
	if window, exists := f.windows[assignment.WindowID]; exists {
		windowClone := *window
		clone.Window = &windowClone
	}
	return &clone
}

func (f *fakeStore) GetShiftWindow(_ context.Context, id int64) (*domain.ShiftWindow, error) {
	window, exists := f.windows[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	clone := *window
	return &clone, nil
}

func (f *fakeStore) ListActiveAssignmentsByEmployee(_ context.Context, employeeID string) ([]*domain.ShiftAssignment, error) {
	result := make([]*domain.ShiftAssignment, 0)
	for _, assignment := range f.assignments {
		if assignment.EmployeeID == employeeID && assignment.IsActive {
			result = append(result, f.cloneAssignment(assignment))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (f *fakeStore) ListAssignmentsByEmployee(ctx context.Context, employeeID string, includeInactive bool) ([]*domain.ShiftAssignment, error) {
	if !includeInactive {
		return f.ListActiveAssignmentsByEmployee(ctx, employeeID)
	}

	result := make([]*domain.ShiftAssignment, 0)
	for _, assignment := range f.assignments {
		if assignment.EmployeeID == employeeID {
			result = append(result, f.cloneAssignment(assignment))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (f *fakeStore) GetShiftAssignment(_ context.Context, id int64) (*domain.ShiftAssignment, error) {
	assignment, exists := f.assignments[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return f.cloneAssignment(assignment), nil
}

func (f *fakeStore) InsertShiftAssignment(_ context.Context, assignment *domain.ShiftAssignment) error {
	assignment.ID = f.nextID
	f.nextID++
	assignment.CreatedAt = time.Now()

	clone := *assignment
	clone.Window = nil
	f.assignments[clone.ID] = &clone
	return nil
}

func (f *fakeStore) UpdateShiftAssignment(_ context.Context, assignment *domain.ShiftAssignment) error {
	if _, exists := f.assignments[assignment.ID]; !exists {
		return domain.ErrNotFound
	}

	clone := *assignment
	clone.Window = nil
	f.assignments[clone.ID] = &clone
	return nil
}

func (f *fakeStore) SetShiftAssignmentActive(_ context.Context, id int64, active bool) error {
	assignment, exists := f.assignments[id]
	if !exists {
		return domain.ErrNotFound
	}
	assignment.IsActive = active
	return nil
}

func (f *fakeStore) DeleteShiftAssignment(_ context.Context, id int64) error {
	assignment, exists := f.assignments[id]
	if !exists || assignment.IsActive {
		return domain.ErrNotFound
	}
	delete(f.assignments, id)
	return nil
}

func (f *fakeStore) FindEquivalentInactiveAssignment(_ context.Context, employeeID string, windowID int64, weekdays domain.WeekdaySet, weeksOfMonth domain.WeekOfMonthSet) (*domain.ShiftAssignment, error) {
	var found *domain.ShiftAssignment
	for _, assignment := range f.assignments {
		if assignment.IsActive || assignment.EmployeeID != employeeID || assignment.WindowID != windowID {
			continue
		}
		if assignment.Weekdays != weekdays || assignment.WeeksOfMonth != weeksOfMonth {
			continue
		}
		if found == nil || assignment.ID < found.ID {
			found = assignment
		}
	}

	if found == nil {
		return nil, domain.ErrNotFound
	}
	return f.cloneAssignment(found), nil
}

func (f *fakeStore) PurgeInactiveAssignments(_ context.Context, employeeID *string) (int64, error) {
	var count int64
	for id, assignment := range f.assignments {
		if assignment.IsActive {
			continue
		}
		if employeeID != nil && assignment.EmployeeID != *employeeID {
			continue
		}
		delete(f.assignments, id)
		count++
	}
	return count, nil
}

func (f *fakeStore) WithEmployeeLock(_ context.Context, _ string, fn func(store Store) error) error {
	return fn(f)
}

// 测试辅助

func mustTimeOfDay(s string) domain.TimeOfDay {
	t, err := domain.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustWeekdays(days ...int) domain.WeekdaySet {
	s, err := domain.NewWeekdaySet(days...)
	if err != nil {
		panic(err)
	}
	return s
}

func mustWeeks(weeks ...int) domain.WeekOfMonthSet {
	s, err := domain.NewWeekOfMonthSet(weeks...)
	if err != nil {
		panic(err)
	}
	return s
}

func seedWindow(f *fakeStore, name, start, end string, active bool) *domain.ShiftWindow {
	return f.addWindow(&domain.ShiftWindow{
		Name:            name,
		StartTime:       mustTimeOfDay(start),
		EndTime:         mustTimeOfDay(end),
		DefaultWeekdays: domain.DefaultWorkingWeekdays,
		IsActive:        active,
	})
}
