package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("记录不存在")
	ErrValidation              = errors.New("参数校验失败")
	ErrWindowInactiveOrMissing = errors.New("时段不存在或已停用")
	ErrAlreadyActive           = errors.New("班次已处于启用状态")
	ErrStillActive             = errors.New("班次仍处于启用状态")
)

// ConflictError 表示新建或修改的班次与该员工已有的启用班次
// 在星期、月内周序、时段三个维度上同时相交。
type ConflictError struct {
	Conflicting *ShiftAssignment
	Window      *ShiftWindow
}

func (e *ConflictError) Error() string {
	name := e.Conflicting.DisplayName
	if name == "" {
		name = e.Window.Name
	}
	return fmt.Sprintf("与现有班次 %s（%s %s-%s）时间重叠", name, e.Window.Name, e.Window.StartTime, e.Window.EndTime)
}
