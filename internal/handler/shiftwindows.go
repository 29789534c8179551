package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/utils"
)

func (h *Handler) CreateShiftWindow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                string `json:"name" validate:"required"`
		StartTime           string `json:"startTime" validate:"required"`
		EndTime             string `json:"endTime" validate:"required"`
		DefaultWeekdays     []int  `json:"defaultWeekdays" validate:"omitempty,dive,gte=1,lte=7"`
		AllowedPauseMinutes int32  `json:"allowedPauseMinutes" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startTime, err := domain.ParseTimeOfDay(req.StartTime)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	endTime, err := domain.ParseTimeOfDay(req.EndTime)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	defaultWeekdays := domain.DefaultWorkingWeekdays
	if len(req.DefaultWeekdays) > 0 {
		defaultWeekdays, err = domain.NewWeekdaySet(req.DefaultWeekdays...)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	window := &domain.ShiftWindow{
		Name:                req.Name,
		StartTime:           startTime,
		EndTime:             endTime,
		DefaultWeekdays:     defaultWeekdays,
		AllowedPauseMinutes: req.AllowedPauseMinutes,
		IsActive:            true,
	}

	if err := utils.ValidateShiftWindowTimes(window); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftWindow(r.Context(), window); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shift_windows_name_key":
				h.errorResponse(w, r, "时段名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建时段成功", window)
}

func (h *Handler) ListShiftWindows(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	windows, err := h.repository.ListShiftWindows(r.Context(), activeOnly)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取时段列表成功", windows)
}

func (h *Handler) GetShiftWindow(w http.ResponseWriter, r *http.Request) {
	windowIDParam := chi.URLParam(r, "id")
	windowID, err := strconv.ParseInt(windowIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "时段ID无效")
		return
	}

	window, err := h.repository.GetShiftWindow(r.Context(), windowID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "时段不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取时段成功", window)
}
