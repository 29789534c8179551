package domain

import (
	"time"
)

type ShiftEventType string

const (
	ShiftEventCreated     ShiftEventType = "created"
	ShiftEventUpdated     ShiftEventType = "updated"
	ShiftEventDeactivated ShiftEventType = "deactivated"
	ShiftEventReactivated ShiftEventType = "reactivated"
)

// ShiftEvent 在班次发生变更后发布到消息队列，
// 供外部的提醒/邮件服务消费，本服务不负责后续的投递。
type ShiftEvent struct {
	EventID      string         `json:"eventId"`
	Type         ShiftEventType `json:"type"`
	EmployeeID   string         `json:"employeeId"`
	AssignmentID int64          `json:"assignmentId"`
	OccurredAt   time.Time      `json:"occurredAt"`
}
