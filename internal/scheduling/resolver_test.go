package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

// 2025-01-06 为周一，处于当月第 1 周。
func TestResolver_InShift(t *testing.T) {
	store := newFakeStore()
	window := seedWindow(store, "早班", "09:00", "17:00", true)
	assignment := store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     window.ID,
		Weekdays:     mustWeekdays(1, 2, 3, 4, 5),
		WeeksOfMonth: mustWeeks(1, 2, 3, 4, 5),
		IsActive:     true,
	})

	resolver := NewResolver(store)
	at := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	resolution, err := resolver.Resolve(context.Background(), "E1", at)
	require.NoError(t, err)
	require.True(t, resolution.InShift)
	require.Equal(t, assignment.ID, resolution.Assignment.ID)
	require.Nil(t, resolution.NextStart)
}

func TestResolver_WindowEndIsExclusive(t *testing.T) {
	store := newFakeStore()
	window := seedWindow(store, "早班", "09:00", "17:00", true)
	store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     window.ID,
		Weekdays:     mustWeekdays(1, 2, 3, 4, 5),
		WeeksOfMonth: mustWeeks(1, 2, 3, 4, 5),
		IsActive:     true,
	})

	resolver := NewResolver(store)
	// 17:00 恰好是开区间端点，此刻不在班，下一次是次日 09:00
	at := time.Date(2025, 1, 6, 17, 0, 0, 0, time.UTC)

	resolution, err := resolver.Resolve(context.Background(), "E1", at)
	require.NoError(t, err)
	require.False(t, resolution.InShift)
	require.NotNil(t, resolution.NextStart)
	require.Equal(t, time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC), *resolution.NextStart)
}

func TestResolver_NextShiftSameDay(t *testing.T) {
	store := newFakeStore()
	window := seedWindow(store, "早班", "09:00", "17:00", true)
	store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     window.ID,
		Weekdays:     mustWeekdays(1, 2, 3, 4, 5),
		WeeksOfMonth: mustWeeks(1, 2, 3, 4, 5),
		IsActive:     true,
	})

	resolver := NewResolver(store)
	at := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

	resolution, err := resolver.Resolve(context.Background(), "E1", at)
	require.NoError(t, err)
	require.False(t, resolution.InShift)
	require.NotNil(t, resolution.NextStart)
	require.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), *resolution.NextStart)
}

func TestResolver_NextShiftSkipsWeekend(t *testing.T) {
	store := newFakeStore()
	window := seedWindow(store, "早班", "09:00", "17:00", true)
	store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     window.ID,
		Weekdays:     mustWeekdays(1, 2, 3, 4, 5),
		WeeksOfMonth: mustWeeks(1, 2, 3, 4, 5),
		IsActive:     true,
	})

	resolver := NewResolver(store)
	// 2025-01-11 为周六，下一个工作日是 01-13 周一
	at := time.Date(2025, 1, 11, 10, 0, 0, 0, time.UTC)

	resolution, err := resolver.Resolve(context.Background(), "E1", at)
	require.NoError(t, err)
	require.False(t, resolution.InShift)
	require.NotNil(t, resolution.NextStart)
	require.Equal(t, time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC), *resolution.NextStart)
}

func TestResolver_InShiftPrefersLowestSortOrder(t *testing.T) {
	store := newFakeStore()
	primary := seedWindow(store, "前台", "09:00", "17:00", true)
	backup := seedWindow(store, "后备", "09:00", "17:00", true)

	store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     backup.ID,
		SortOrder:    2,
		Weekdays:     mustWeekdays(1, 2, 3, 4, 5),
		WeeksOfMonth: mustWeeks(1, 2, 3, 4, 5),
		IsActive:     true,
	})
	preferred := store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     primary.ID,
		SortOrder:    1,
		Weekdays:     mustWeekdays(1, 2, 3, 4, 5),
		WeeksOfMonth: mustWeeks(1, 2, 3, 4, 5),
		IsActive:     true,
	})

	resolver := NewResolver(store)
	at := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	resolution, err := resolver.Resolve(context.Background(), "E1", at)
	require.NoError(t, err)
	require.True(t, resolution.InShift)
	require.Equal(t, preferred.ID, resolution.Assignment.ID, "两条班次同时命中时应取 sort_order 较小者")
}

func TestResolver_NextShiftPrefersEarlierStart(t *testing.T) {
	store := newFakeStore()
	morning := seedWindow(store, "早班", "09:00", "17:00", true)
	evening := seedWindow(store, "晚班", "17:00", "23:00", true)

	store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     evening.ID,
		SortOrder:    1,
		Weekdays:     mustWeekdays(1, 2, 3, 4, 5),
		WeeksOfMonth: mustWeeks(1, 2, 3, 4, 5),
		IsActive:     true,
	})
	earlier := store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     morning.ID,
		SortOrder:    2,
		Weekdays:     mustWeekdays(1, 2, 3, 4, 5),
		WeeksOfMonth: mustWeeks(1, 2, 3, 4, 5),
		IsActive:     true,
	})

	resolver := NewResolver(store)
	at := time.Date(2025, 1, 6, 6, 0, 0, 0, time.UTC)

	// "下一次"看开始时刻，不看优先级
	resolution, err := resolver.Resolve(context.Background(), "E1", at)
	require.NoError(t, err)
	require.False(t, resolution.InShift)
	require.Equal(t, earlier.ID, resolution.Assignment.ID)
	require.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), *resolution.NextStart)
}

func TestResolver_NextShiftWrapsAcrossMonth(t *testing.T) {
	store := newFakeStore()
	window := seedWindow(store, "月初例会", "09:00", "17:00", true)
	store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     window.ID,
		Weekdays:     mustWeekdays(1),
		WeeksOfMonth: mustWeeks(1),
		IsActive:     true,
	})

	resolver := NewResolver(store)
	// 2025-01-20 为当月第 3 周的周一，规则只在每月第 1 周生效，
	// 因此下一次要回绕到 2025-02-03（二月第 1 周的周一）
	at := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)

	resolution, err := resolver.Resolve(context.Background(), "E1", at)
	require.NoError(t, err)
	require.False(t, resolution.InShift)
	require.NotNil(t, resolution.NextStart)
	require.Equal(t, time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC), *resolution.NextStart)
}

func TestResolver_NoAssignments(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)

	resolution, err := resolver.Resolve(context.Background(), "E1", time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.False(t, resolution.InShift)
	require.Nil(t, resolution.Assignment)
	require.Nil(t, resolution.NextStart)
}

func TestResolver_IgnoresInactiveAssignments(t *testing.T) {
	store := newFakeStore()
	window := seedWindow(store, "早班", "09:00", "17:00", true)
	store.addAssignment(&domain.ShiftAssignment{
		EmployeeID:   "E1",
		WindowID:     window.ID,
		Weekdays:     mustWeekdays(1, 2, 3, 4, 5),
		WeeksOfMonth: mustWeeks(1, 2, 3, 4, 5),
		IsActive:     false,
	})

	resolver := NewResolver(store)
	resolution, err := resolver.Resolve(context.Background(), "E1", time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.False(t, resolution.InShift)
	require.Nil(t, resolution.Assignment)
}

func TestIsoWeekday(t *testing.T) {
	require.Equal(t, 1, isoWeekday(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)))  // 周一
	require.Equal(t, 6, isoWeekday(time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC))) // 周六
	require.Equal(t, 7, isoWeekday(time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC))) // 周日
}

func TestWeekOfMonth(t *testing.T) {
	require.Equal(t, 1, weekOfMonth(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 1, weekOfMonth(time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 2, weekOfMonth(time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 5, weekOfMonth(time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC)))
	// 第 29 天以后统一归入第 5 周
	require.Equal(t, 5, weekOfMonth(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)))
}
