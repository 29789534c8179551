package scheduling

import (
	"context"
	"errors"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

// ConflictResult 是一次冲突检测的结果，Conflicting 为 nil 表示无冲突。
type ConflictResult struct {
	Conflicting *domain.ShiftAssignment
	Window      *domain.ShiftWindow
}

// OverlapDetector 检测候选班次与某员工已启用班次之间的三维重叠：
// 星期集合相交、月内周序集合相交、且引用时段按半开区间重叠。
type OverlapDetector struct{}

func NewOverlapDetector() *OverlapDetector {
	return &OverlapDetector{}
}

// CheckConflict 返回第一条与候选班次冲突的已启用班次。
// excludeID 用于更新场景下排除记录自身，传 0 表示不排除。
// 创建与写入必须位于同一事务中，因此 store 应当是事务内的实现。
func (d *OverlapDetector) CheckConflict(ctx context.Context, store Store, candidate *domain.ShiftAssignment, excludeID int64) (*ConflictResult, error) {
	window, err := store.GetShiftWindow(ctx, candidate.WindowID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrWindowInactiveOrMissing
		}
		return nil, err
	}
	if !window.IsActive {
		return nil, domain.ErrWindowInactiveOrMissing
	}

	siblings, err := store.ListActiveAssignmentsByEmployee(ctx, candidate.EmployeeID)
	if err != nil {
		return nil, err
	}

	for _, sibling := range siblings {
		if sibling.ID == excludeID || sibling.ID == candidate.ID {
			continue
		}

		// 三个维度中任意一个不相交即不冲突
		if !candidate.Weekdays.Intersects(sibling.Weekdays) {
			continue
		}
		if !candidate.WeeksOfMonth.Intersects(sibling.WeeksOfMonth) {
			continue
		}

		siblingWindow := sibling.Window
		if siblingWindow == nil {
			// 时段行即使被停用也不会被物理删除，查不到属于数据异常
			siblingWindow, err = store.GetShiftWindow(ctx, sibling.WindowID)
			if err != nil {
				return nil, err
			}
		}

		if window.Overlaps(siblingWindow) {
			// 只需报告第一条冲突
			return &ConflictResult{Conflicting: sibling, Window: siblingWindow}, nil
		}
	}

	return &ConflictResult{}, nil
}
