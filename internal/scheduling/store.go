package scheduling

import (
	"context"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

// Store 是排班引擎依赖的持久化端口，由 repository 包实现。
// 引擎不持有任何全局连接，所有实现都通过构造函数显式注入。
type Store interface {
	// GetShiftWindow 返回指定时段，无论其是否启用；不存在时返回 domain.ErrNotFound。
	GetShiftWindow(ctx context.Context, id int64) (*domain.ShiftWindow, error)

	// ListActiveAssignmentsByEmployee 返回某员工所有启用中的班次，按 sort_order 升序。
	ListActiveAssignmentsByEmployee(ctx context.Context, employeeID string) ([]*domain.ShiftAssignment, error)
	// ListAssignmentsByEmployee 返回某员工的班次，includeInactive 决定是否包含已停用的记录。
	ListAssignmentsByEmployee(ctx context.Context, employeeID string, includeInactive bool) ([]*domain.ShiftAssignment, error)
	GetShiftAssignment(ctx context.Context, id int64) (*domain.ShiftAssignment, error)
	InsertShiftAssignment(ctx context.Context, assignment *domain.ShiftAssignment) error
	UpdateShiftAssignment(ctx context.Context, assignment *domain.ShiftAssignment) error
	SetShiftAssignmentActive(ctx context.Context, id int64, active bool) error
	// DeleteShiftAssignment 物理删除一条班次记录，调用方必须保证该记录已停用。
	DeleteShiftAssignment(ctx context.Context, id int64) error
	// FindEquivalentInactiveAssignment 在已停用记录中查找
	// (employeeID, windowID, weekdays, weeksOfMonth) 完全一致的班次，找不到时返回 domain.ErrNotFound。
	FindEquivalentInactiveAssignment(ctx context.Context, employeeID string, windowID int64, weekdays domain.WeekdaySet, weeksOfMonth domain.WeekOfMonthSet) (*domain.ShiftAssignment, error)
	// PurgeInactiveAssignments 物理删除已停用的班次，employeeID 为 nil 时作用于全部员工，返回删除数量。
	PurgeInactiveAssignments(ctx context.Context, employeeID *string) (int64, error)
}

// Transactor 在单个事务内执行 fn，并在事务开始时获取以员工为粒度的写锁，
// 以保证"查冲突再写入"不会与同一员工的并发写交错。
type Transactor interface {
	WithEmployeeLock(ctx context.Context, employeeID string, fn func(store Store) error) error
}
