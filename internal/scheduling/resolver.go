package scheduling

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

// maxLookaheadDays 限定"下一次班次"向后搜索的天数。
// 稀疏的规则（例如只在每月第 5 周生效）可能隔好几个月才出现一次，
// 一年之内扫不到即认为该员工没有下一次班次。
const maxLookaheadDays = 366

// Resolver 解析某员工在给定时刻正处于哪个班次，或下一次班次是什么。
// 只读组件，可与写操作并发执行。
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve 先做在班判定：当前星期、月内周序、时刻三个维度同时命中的班次中
// 取 sort_order 最小者。未命中时逐天向后扫描，按（日期、开始时刻、sort_order）
// 取最近的一次班次；原始逻辑只在当前周内搜索、无法跨月内周序回绕，
// 这里改为统一的逐天扫描策略。
func (r *Resolver) Resolve(ctx context.Context, employeeID string, at time.Time) (*domain.ShiftResolution, error) {
	assignments, err := r.store.ListActiveAssignmentsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	// 解析各班次引用的时段
	windows := make(map[int64]*domain.ShiftWindow)
	for _, assignment := range assignments {
		if assignment.Window != nil {
			windows[assignment.WindowID] = assignment.Window
			continue
		}
		window, exists := windows[assignment.WindowID]
		if !exists {
			window, err = r.store.GetShiftWindow(ctx, assignment.WindowID)
			if err != nil {
				return nil, err
			}
			windows[assignment.WindowID] = window
		}
		assignment.Window = window
	}

	weekday := isoWeekday(at)
	week := weekOfMonth(at)
	timeOfDay := domain.TimeOfDay(at.Hour()*60 + at.Minute())

	// 在班判定：列表按 sort_order 升序，第一条命中即为优先级最高者
	for _, assignment := range assignments {
		if !assignment.Weekdays.Has(weekday) || !assignment.WeeksOfMonth.Has(week) {
			continue
		}
		if assignment.Window.StartTime <= timeOfDay && timeOfDay < assignment.Window.EndTime {
			return &domain.ShiftResolution{InShift: true, Assignment: assignment}, nil
		}
	}

	// 下一次班次：逐天向后扫描
	for offset := 0; offset <= maxLookaheadDays; offset++ {
		day := at.AddDate(0, 0, offset)
		dayWeekday := isoWeekday(day)
		dayWeek := weekOfMonth(day)

		var best *domain.ShiftAssignment
		for _, assignment := range assignments {
			if !assignment.Weekdays.Has(dayWeekday) || !assignment.WeeksOfMonth.Has(dayWeek) {
				continue
			}
			if offset == 0 && assignment.Window.StartTime <= timeOfDay {
				// 今天已经开始过的班次不算下一次
				continue
			}
			// 开始时刻相同时保留先遇到的（即 sort_order 较小者）
			if best == nil || assignment.Window.StartTime < best.Window.StartTime {
				best = assignment
			}
		}

		if best != nil {
			start := time.Date(day.Year(), day.Month(), day.Day(), int(best.Window.StartTime)/60, int(best.Window.StartTime)%60, 0, 0, at.Location())
			return &domain.ShiftResolution{InShift: false, Assignment: best, NextStart: &start}, nil
		}
	}

	return &domain.ShiftResolution{InShift: false}, nil
}

// isoWeekday 把 time.Weekday 换算为 1=周一 ... 7=周日。
func isoWeekday(t time.Time) int {
	weekday := int(t.Weekday())
	if weekday == 0 {
		return 7
	}
	return weekday
}

// weekOfMonth 为 ceil(日期/7)，并按约定截断到 1-5。
func weekOfMonth(t time.Time) int {
	week := (t.Day() + 6) / 7
	if week > 5 {
		week = 5
	}
	return week
}
