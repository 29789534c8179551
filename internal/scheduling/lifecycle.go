package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

// Manager 负责班次的完整生命周期：创建、修改、停用、复用、清理。
// 所有"查冲突再写入"的操作都在 Transactor 提供的员工级写锁事务中执行。
type Manager struct {
	store    Store
	tx       Transactor
	detector *OverlapDetector
}

func NewManager(store Store, tx Transactor) *Manager {
	return &Manager{
		store:    store,
		tx:       tx,
		detector: NewOverlapDetector(),
	}
}

type CreateInput struct {
	EmployeeID   string
	WindowID     int64
	SortOrder    int32
	Weekdays     *domain.WeekdaySet     // 为 nil 时默认周一至周五
	WeeksOfMonth *domain.WeekOfMonthSet // 为 nil 时默认全部周序
	DisplayName  string
}

func (in *CreateInput) validate() error {
	if in.EmployeeID == "" {
		return fmt.Errorf("%w: 员工编号不能为空", domain.ErrValidation)
	}
	if in.WindowID <= 0 {
		return fmt.Errorf("%w: 时段编号无效", domain.ErrValidation)
	}
	if in.Weekdays != nil && in.Weekdays.IsEmpty() {
		// 空集合意味着"永不适用"，不允许作为班次存储
		return fmt.Errorf("%w: 星期集合不能为空", domain.ErrValidation)
	}
	if in.WeeksOfMonth != nil && in.WeeksOfMonth.IsEmpty() {
		return fmt.Errorf("%w: 月内周序集合不能为空", domain.ErrValidation)
	}
	return nil
}

func (in *CreateInput) toAssignment() *domain.ShiftAssignment {
	assignment := &domain.ShiftAssignment{
		EmployeeID:   in.EmployeeID,
		WindowID:     in.WindowID,
		SortOrder:    in.SortOrder,
		Weekdays:     domain.DefaultWorkingWeekdays,
		WeeksOfMonth: domain.AllWeeksOfMonth,
		DisplayName:  in.DisplayName,
		IsActive:     true,
	}
	if in.Weekdays != nil {
		assignment.Weekdays = *in.Weekdays
	}
	if in.WeeksOfMonth != nil {
		assignment.WeeksOfMonth = *in.WeeksOfMonth
	}
	return assignment
}

// Create 校验输入并在员工级写锁内检测冲突后插入新班次。
func (m *Manager) Create(ctx context.Context, input *CreateInput) (*domain.ShiftAssignment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	assignment := input.toAssignment()

	err := m.tx.WithEmployeeLock(ctx, assignment.EmployeeID, func(store Store) error {
		result, err := m.detector.CheckConflict(ctx, store, assignment, 0)
		if err != nil {
			return err
		}
		if result.Conflicting != nil {
			return &domain.ConflictError{Conflicting: result.Conflicting, Window: result.Window}
		}

		return store.InsertShiftAssignment(ctx, assignment)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

type UpdateInput struct {
	WindowID     *int64
	SortOrder    *int32
	Weekdays     *domain.WeekdaySet
	WeeksOfMonth *domain.WeekOfMonthSet
	DisplayName  *string
}

// Update 合并传入的字段并重新校验。只要时段或任一集合发生变化，
// 就需要在排除自身的前提下重新检测冲突；已停用的记录不承载任何不变式，跳过检测。
func (m *Manager) Update(ctx context.Context, id int64, input *UpdateInput) (*domain.ShiftAssignment, error) {
	if input.Weekdays != nil && input.Weekdays.IsEmpty() {
		return nil, fmt.Errorf("%w: 星期集合不能为空", domain.ErrValidation)
	}
	if input.WeeksOfMonth != nil && input.WeeksOfMonth.IsEmpty() {
		return nil, fmt.Errorf("%w: 月内周序集合不能为空", domain.ErrValidation)
	}

	existing, err := m.store.GetShiftAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *domain.ShiftAssignment
	err = m.tx.WithEmployeeLock(ctx, existing.EmployeeID, func(store Store) error {
		// 锁内重新加载，避免合并到过期的字段上
		assignment, err := store.GetShiftAssignment(ctx, id)
		if err != nil {
			return err
		}

		recurrenceChanged := false
		if input.WindowID != nil && *input.WindowID != assignment.WindowID {
			assignment.WindowID = *input.WindowID
			recurrenceChanged = true
		}
		if input.Weekdays != nil && *input.Weekdays != assignment.Weekdays {
			assignment.Weekdays = *input.Weekdays
			recurrenceChanged = true
		}
		if input.WeeksOfMonth != nil && *input.WeeksOfMonth != assignment.WeeksOfMonth {
			assignment.WeeksOfMonth = *input.WeeksOfMonth
			recurrenceChanged = true
		}
		if input.SortOrder != nil {
			assignment.SortOrder = *input.SortOrder
		}
		if input.DisplayName != nil {
			assignment.DisplayName = *input.DisplayName
		}

		if recurrenceChanged && assignment.IsActive {
			result, err := m.detector.CheckConflict(ctx, store, assignment, assignment.ID)
			if err != nil {
				return err
			}
			if result.Conflicting != nil {
				return &domain.ConflictError{Conflicting: result.Conflicting, Window: result.Window}
			}
		}

		if err := store.UpdateShiftAssignment(ctx, assignment); err != nil {
			return err
		}

		updated = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Deactivate 停用班次。对已停用的记录重复调用视为成功（幂等）。
func (m *Manager) Deactivate(ctx context.Context, id int64) error {
	assignment, err := m.store.GetShiftAssignment(ctx, id)
	if err != nil {
		return err
	}
	if !assignment.IsActive {
		return nil
	}

	return m.store.SetShiftAssignmentActive(ctx, id, false)
}

// Reactivate 重新启用已停用的班次。停用期间可能插入了与之冲突的班次，
// 因此启用前必须按当前字段重新检测冲突。
func (m *Manager) Reactivate(ctx context.Context, id int64) error {
	existing, err := m.store.GetShiftAssignment(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsActive {
		return domain.ErrAlreadyActive
	}

	return m.tx.WithEmployeeLock(ctx, existing.EmployeeID, func(store Store) error {
		assignment, err := store.GetShiftAssignment(ctx, id)
		if err != nil {
			return err
		}
		if assignment.IsActive {
			return domain.ErrAlreadyActive
		}

		result, err := m.detector.CheckConflict(ctx, store, assignment, assignment.ID)
		if err != nil {
			return err
		}
		if result.Conflicting != nil {
			return &domain.ConflictError{Conflicting: result.Conflicting, Window: result.Window}
		}

		return store.SetShiftAssignmentActive(ctx, id, true)
	})
}

// FindOrCreate 优先复用与输入等价的已停用记录（避免界面上"删了又加"产生重复行），
// 找不到等价记录时退化为 Create。
func (m *Manager) FindOrCreate(ctx context.Context, input *CreateInput) (*domain.ShiftAssignment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	assignment := input.toAssignment()

	err := m.tx.WithEmployeeLock(ctx, assignment.EmployeeID, func(store Store) error {
		existing, err := store.FindEquivalentInactiveAssignment(ctx, assignment.EmployeeID, assignment.WindowID, assignment.Weekdays, assignment.WeeksOfMonth)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if existing != nil {
			result, err := m.detector.CheckConflict(ctx, store, existing, existing.ID)
			if err != nil {
				return err
			}
			if result.Conflicting != nil {
				return &domain.ConflictError{Conflicting: result.Conflicting, Window: result.Window}
			}

			// 复用旧行，但以本次请求的优先级与显示名为准
			existing.SortOrder = input.SortOrder
			existing.DisplayName = input.DisplayName
			existing.IsActive = true
			if err := store.UpdateShiftAssignment(ctx, existing); err != nil {
				return err
			}

			assignment = existing
			return nil
		}

		result, err := m.detector.CheckConflict(ctx, store, assignment, 0)
		if err != nil {
			return err
		}
		if result.Conflicting != nil {
			return &domain.ConflictError{Conflicting: result.Conflicting, Window: result.Window}
		}

		return store.InsertShiftAssignment(ctx, assignment)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// Delete 物理删除一条班次记录，仅允许删除已停用的记录。
func (m *Manager) Delete(ctx context.Context, id int64) error {
	assignment, err := m.store.GetShiftAssignment(ctx, id)
	if err != nil {
		return err
	}
	if assignment.IsActive {
		return domain.ErrStillActive
	}

	return m.store.DeleteShiftAssignment(ctx, id)
}

// PurgeInactive 物理删除已停用的班次，employeeID 为 nil 时作用于全部员工。
// 清理由外部运维脚本触发，引擎自身不包含周期任务。
func (m *Manager) PurgeInactive(ctx context.Context, employeeID *string) (int64, error) {
	return m.store.PurgeInactiveAssignments(ctx, employeeID)
}
