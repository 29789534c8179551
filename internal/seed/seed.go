package seed

import (
	"context"
	"log/slog"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/repository"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/scheduling"
)

type windowSeed struct {
	name       string
	start, end string
	pause      int32
}

type assignmentSeed struct {
	employeeID  string
	windowName  string
	order       int32
	weekdays    []int
	weeks       []int
	displayName string
}

var windowSeeds = []windowSeed{
	{name: "早班", start: "09:00", end: "17:00", pause: 60},
	{name: "晚班", start: "17:00", end: "23:00", pause: 30},
	{name: "周末半班", start: "10:00", end: "14:00", pause: 15},
}

var assignmentSeeds = []assignmentSeed{
	{employeeID: "E1001", windowName: "早班", order: 1, weekdays: []int{1, 2, 3, 4, 5}, weeks: []int{1, 2, 3, 4, 5}, displayName: "工作日早班"},
	{employeeID: "E1001", windowName: "晚班", order: 2, weekdays: []int{6}, weeks: []int{1, 3}, displayName: "隔周周六晚班"},
	{employeeID: "E1002", windowName: "晚班", order: 1, weekdays: []int{1, 2, 3, 4, 5}, weeks: []int{1, 2, 3, 4, 5}, displayName: "工作日晚班"},
	{employeeID: "E1002", windowName: "周末半班", order: 2, weekdays: []int{7}, weeks: []int{2, 4}, displayName: "双周周日半班"},
}

// SeedRealData 写入一组演示用的时段与班次。
// 班次通过 Manager 创建，冲突的数据会被引擎拒绝而不是落库。
func SeedRealData(repo *repository.Repository, manager *scheduling.Manager) {
	ctx := context.Background()

	windowIDs := make(map[string]int64)
	for _, ws := range windowSeeds {
		start, err := domain.ParseTimeOfDay(ws.start)
		if err != nil {
			slog.Error("无效的时段开始时刻", "name", ws.name, "error", err)
			continue
		}
		end, err := domain.ParseTimeOfDay(ws.end)
		if err != nil {
			slog.Error("无效的时段结束时刻", "name", ws.name, "error", err)
			continue
		}

		window := &domain.ShiftWindow{
			Name:                ws.name,
			StartTime:           start,
			EndTime:             end,
			DefaultWeekdays:     domain.DefaultWorkingWeekdays,
			AllowedPauseMinutes: ws.pause,
			IsActive:            true,
		}
		if err := repo.CreateShiftWindow(ctx, window); err != nil {
			slog.Error("无法插入时段", "name", ws.name, "error", err)
			continue
		}

		windowIDs[ws.name] = window.ID
		slog.Info("插入时段成功", "name", ws.name, "id", window.ID)
	}

	for _, as := range assignmentSeeds {
		windowID, exists := windowIDs[as.windowName]
		if !exists {
			slog.Error("找不到班次引用的时段", "window", as.windowName)
			continue
		}

		weekdays, err := domain.NewWeekdaySet(as.weekdays...)
		if err != nil {
			slog.Error("无效的星期集合", "employeeId", as.employeeID, "error", err)
			continue
		}
		weeks, err := domain.NewWeekOfMonthSet(as.weeks...)
		if err != nil {
			slog.Error("无效的周序集合", "employeeId", as.employeeID, "error", err)
			continue
		}

		input := &scheduling.CreateInput{
			EmployeeID:   as.employeeID,
			WindowID:     windowID,
			SortOrder:    as.order,
			Weekdays:     &weekdays,
			WeeksOfMonth: &weeks,
			DisplayName:  as.displayName,
		}

		assignment, err := manager.Create(ctx, input)
		if err != nil {
			slog.Error("无法插入班次", "employeeId", as.employeeID, "error", err)
			continue
		}

		slog.Info("插入班次成功", "employeeId", as.employeeID, "id", assignment.ID)
	}
}
