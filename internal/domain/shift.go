package domain

import (
	"time"
)

// ShiftWindow 是一个命名的日内时段，班次在其上定义。
type ShiftWindow struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	StartTime           TimeOfDay  `json:"startTime"`
	EndTime             TimeOfDay  `json:"endTime"`
	DefaultWeekdays     WeekdaySet `json:"defaultWeekdays"`
	AllowedPauseMinutes int32      `json:"allowedPauseMinutes"`
	IsActive            bool       `json:"isActive"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// Overlaps 按半开区间 [start, end) 判断两个时段是否重叠。
func (w *ShiftWindow) Overlaps(other *ShiftWindow) bool {
	return w.StartTime < other.EndTime && other.StartTime < w.EndTime
}

// ShiftAssignment 是一条循环班次规则：把某个员工绑定到一个时段上，
// 并限定适用的星期集合与月内周序集合。
type ShiftAssignment struct {
	ID           int64          `json:"id"`
	EmployeeID   string         `json:"employeeId"`
	WindowID     int64          `json:"windowId"`
	SortOrder    int32          `json:"order"` // 越小优先级越高
	Weekdays     WeekdaySet     `json:"weekdays"`
	WeeksOfMonth WeekOfMonthSet `json:"weeksOfMonth"`
	DisplayName  string         `json:"displayName"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`

	// Window 为查询时一并解析出来的时段，不随赋值持久化。
	Window *ShiftWindow `json:"window,omitempty"`
}

// ShiftResolution 是某个时刻下班次解析的结果。
type ShiftResolution struct {
	InShift    bool             `json:"inShift"`
	Assignment *ShiftAssignment `json:"assignment,omitempty"`
	// NextStart 仅在 InShift 为 false 且找到下一次班次时给出其开始时刻。
	NextStart *time.Time `json:"nextStart,omitempty"`
}
