package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// engineError 把排班引擎的错误分类映射为响应。
// 冲突时在 data 中带上与之冲突的班次，方便前端直接展示。
func (h *Handler) engineError(w http.ResponseWriter, r *http.Request, err error) {
	var conflictErr *domain.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		h.writeJSON(w, r, http.StatusOK, Response{
			Success: false,
			Message: conflictErr.Error(),
			Data:    conflictErr.Conflicting,
		})
	case errors.Is(err, domain.ErrValidation):
		h.errorResponse(w, r, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.errorResponse(w, r, "班次不存在")
	case errors.Is(err, domain.ErrWindowInactiveOrMissing):
		h.errorResponse(w, r, "时段不存在或已停用")
	case errors.Is(err, domain.ErrAlreadyActive):
		h.errorResponse(w, r, "班次已处于启用状态")
	case errors.Is(err, domain.ErrStillActive):
		h.errorResponse(w, r, "班次仍处于启用状态，请先停用")
	default:
		h.internalServerError(w, r, err)
	}
}
