package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/scheduling"
)

func currentShiftCacheKey(employeeID string) string {
	return fmt.Sprintf("current_shift:%s", employeeID)
}

// afterMutation 在班次变更提交后清除缓存并发布变更事件。
// 变更本身已经提交，这两步失败都只记录日志，不影响响应。
func (h *Handler) afterMutation(r *http.Request, eventType domain.ShiftEventType, employeeID string, assignmentID int64) {
	ctx := r.Context()

	if err := h.redisClient.Del(ctx, currentShiftCacheKey(employeeID)).Err(); err != nil {
		slog.Warn("清除当前班次缓存失败", "employeeId", employeeID, "error", err)
	}

	if err := h.publisher.PublishShiftEvent(ctx, eventType, employeeID, assignmentID); err != nil {
		slog.Warn("发布班次变更事件失败", "employeeId", employeeID, "error", err)
	}
}

func (h *Handler) ListShiftAssignments(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	assignments, err := h.repository.ListAssignmentsByEmployee(r.Context(), employeeID, includeInactive)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", assignments)
}

func (h *Handler) CreateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	input, ok := h.readCreateInput(w, r)
	if !ok {
		return
	}

	assignment, err := h.manager.Create(r.Context(), input)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.afterMutation(r, domain.ShiftEventCreated, assignment.EmployeeID, assignment.ID)
	h.successResponse(w, r, "创建班次成功", assignment)
}

func (h *Handler) FindOrCreateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	input, ok := h.readCreateInput(w, r)
	if !ok {
		return
	}

	assignment, err := h.manager.FindOrCreate(r.Context(), input)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.afterMutation(r, domain.ShiftEventReactivated, assignment.EmployeeID, assignment.ID)
	h.successResponse(w, r, "创建班次成功", assignment)
}

// readCreateInput 解析创建类请求的公共部分。
func (h *Handler) readCreateInput(w http.ResponseWriter, r *http.Request) (*scheduling.CreateInput, bool) {
	employeeID := chi.URLParam(r, "employeeID")

	var req struct {
		WindowID     int64  `json:"windowId" validate:"required"`
		Order        int32  `json:"order"`
		Weekdays     []int  `json:"weekdays" validate:"omitempty,dive,gte=1,lte=7"`
		WeeksOfMonth []int  `json:"weeksOfMonth" validate:"omitempty,dive,gte=1,lte=5"`
		DisplayName  string `json:"displayName"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}

	input := &scheduling.CreateInput{
		EmployeeID:  employeeID,
		WindowID:    req.WindowID,
		SortOrder:   req.Order,
		DisplayName: req.DisplayName,
	}

	// 未传集合时由引擎套用默认值（周一至周五、全部周序）
	if len(req.Weekdays) > 0 {
		weekdays, err := domain.NewWeekdaySet(req.Weekdays...)
		if err != nil {
			h.badRequest(w, r, err)
			return nil, false
		}
		input.Weekdays = &weekdays
	}
	if len(req.WeeksOfMonth) > 0 {
		weeks, err := domain.NewWeekOfMonthSet(req.WeeksOfMonth...)
		if err != nil {
			h.badRequest(w, r, err)
			return nil, false
		}
		input.WeeksOfMonth = &weeks
	}

	return input, true
}

func (h *Handler) GetCurrentShift(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	at := time.Now()
	atParam := r.URL.Query().Get("at")
	if atParam != "" {
		parsed, err := time.Parse(time.RFC3339, atParam)
		if err != nil {
			h.errorResponse(w, r, "无效的时间参数")
			return
		}
		at = parsed
	}

	// 只缓存"当前时刻"的查询，带 at 参数的历史查询直接解析
	useCache := atParam == ""
	if useCache {
		cached, err := h.redisClient.Get(r.Context(), currentShiftCacheKey(employeeID)).Result()
		if err == nil {
			resolution := &domain.ShiftResolution{}
			if err := json.Unmarshal([]byte(cached), resolution); err == nil {
				h.successResponse(w, r, "获取当前班次成功", resolution)
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			// 缓存不可用时降级为直接解析
			slog.Warn("读取当前班次缓存失败", "employeeId", employeeID, "error", err)
		}
	}

	resolution, err := h.resolver.Resolve(r.Context(), employeeID, at)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	if useCache {
		if body, err := json.Marshal(resolution); err == nil {
			ttl := time.Duration(h.config.Cache.CurrentShiftTTL) * time.Second
			if err := h.redisClient.Set(r.Context(), currentShiftCacheKey(employeeID), body, ttl).Err(); err != nil {
				slog.Warn("写入当前班次缓存失败", "employeeId", employeeID, "error", err)
			}
		}
	}

	h.successResponse(w, r, "获取当前班次成功", resolution)
}

func (h *Handler) UpdateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(ShiftAssignmentCtx).(*domain.ShiftAssignment)

	var req struct {
		WindowID     *int64  `json:"windowId"`
		Order        *int32  `json:"order"`
		Weekdays     []int   `json:"weekdays" validate:"omitempty,dive,gte=1,lte=7"`
		WeeksOfMonth []int   `json:"weeksOfMonth" validate:"omitempty,dive,gte=1,lte=5"`
		DisplayName  *string `json:"displayName"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	input := &scheduling.UpdateInput{
		WindowID:    req.WindowID,
		SortOrder:   req.Order,
		DisplayName: req.DisplayName,
	}

	if len(req.Weekdays) > 0 {
		weekdays, err := domain.NewWeekdaySet(req.Weekdays...)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		input.Weekdays = &weekdays
	}
	if len(req.WeeksOfMonth) > 0 {
		weeks, err := domain.NewWeekOfMonthSet(req.WeeksOfMonth...)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		input.WeeksOfMonth = &weeks
	}

	updated, err := h.manager.Update(r.Context(), assignment.ID, input)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.afterMutation(r, domain.ShiftEventUpdated, updated.EmployeeID, updated.ID)
	h.successResponse(w, r, "更新班次成功", updated)
}

func (h *Handler) DeactivateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(ShiftAssignmentCtx).(*domain.ShiftAssignment)

	if err := h.manager.Deactivate(r.Context(), assignment.ID); err != nil {
		h.engineError(w, r, err)
		return
	}

	h.afterMutation(r, domain.ShiftEventDeactivated, assignment.EmployeeID, assignment.ID)
	h.successResponse(w, r, "停用班次成功", nil)
}

func (h *Handler) ReactivateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(ShiftAssignmentCtx).(*domain.ShiftAssignment)

	if err := h.manager.Reactivate(r.Context(), assignment.ID); err != nil {
		h.engineError(w, r, err)
		return
	}

	h.afterMutation(r, domain.ShiftEventReactivated, assignment.EmployeeID, assignment.ID)
	h.successResponse(w, r, "启用班次成功", nil)
}

func (h *Handler) DeleteShiftAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(ShiftAssignmentCtx).(*domain.ShiftAssignment)

	if err := h.manager.Delete(r.Context(), assignment.ID); err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}

func (h *Handler) PurgeInactiveAssignments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID *string `json:"employeeId"`
	}

	// 请求体可以为空，表示清理全部员工
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}

	count, err := h.manager.PurgeInactive(r.Context(), req.EmployeeID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "清理已停用班次成功", map[string]int64{"deleted": count})
}
