package handler

type ContextKey string

var (
	ShiftAssignmentCtx ContextKey = "shiftAssignment"
)
