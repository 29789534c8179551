package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

// ValidateShiftWindowTimes 校验时段的起止时刻。
// 不支持隔夜时段，结束时刻必须严格晚于开始时刻。
func ValidateShiftWindowTimes(window *domain.ShiftWindow) error {
	if !window.StartTime.Valid() {
		return fmt.Errorf("无效的开始时刻 %s", window.StartTime)
	}
	if !window.EndTime.Valid() {
		return fmt.Errorf("无效的结束时刻 %s", window.EndTime)
	}
	if window.EndTime <= window.StartTime {
		return fmt.Errorf("结束时刻 %s 必须晚于开始时刻 %s", window.EndTime, window.StartTime)
	}
	return nil
}
