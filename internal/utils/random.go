package utils

import (
	"fmt"
	"math/rand"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/scheduling"
)

var windowNames = []string{"早班", "午班", "晚班", "前台班", "值班"}

// GenerateRandomShiftWindow 生成一个随机时段，供 seed 工具使用。
// 开始时刻落在 6:00-14:00 之间的整半小时，时长 4-8 小时。
func GenerateRandomShiftWindow() *domain.ShiftWindow {
	start := 6*60 + rand.Intn(17)*30
	duration := (4 + rand.Intn(5)) * 60

	end := start + duration
	if end >= domain.MinutesPerDay {
		end = domain.MinutesPerDay - 1
	}

	return &domain.ShiftWindow{
		Name:                fmt.Sprintf("%s-%02d", windowNames[rand.Intn(len(windowNames))], rand.Intn(100)),
		StartTime:           domain.TimeOfDay(start),
		EndTime:             domain.TimeOfDay(end),
		DefaultWeekdays:     domain.DefaultWorkingWeekdays,
		AllowedPauseMinutes: int32(rand.Intn(4) * 15),
		IsActive:            true,
	}
}

// GenerateRandomAssignmentInput 为指定员工和时段生成一份随机的班次创建输入。
// 随机选取 2-5 个星期与 1-5 个周序，冲突与否交由引擎判定。
func GenerateRandomAssignmentInput(employeeID string, windowID int64) *scheduling.CreateInput {
	days := rand.Perm(7)[:2+rand.Intn(4)]
	for i := range days {
		days[i]++
	}
	weekdays, _ := domain.NewWeekdaySet(days...)

	weeks := rand.Perm(5)[:1+rand.Intn(5)]
	for i := range weeks {
		weeks[i]++
	}
	weeksOfMonth, _ := domain.NewWeekOfMonthSet(weeks...)

	return &scheduling.CreateInput{
		EmployeeID:   employeeID,
		WindowID:     windowID,
		SortOrder:    int32(rand.Intn(10)),
		Weekdays:     &weekdays,
		WeeksOfMonth: &weeksOfMonth,
		DisplayName:  fmt.Sprintf("随机班次-%02d", rand.Intn(100)),
	}
}
