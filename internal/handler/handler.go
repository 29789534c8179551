package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/events"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/repository"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/scheduling"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	manager     *scheduling.Manager
	resolver    *scheduling.Resolver
	translator  ut.Translator
	publisher   *events.Publisher
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, manager *scheduling.Manager, resolver *scheduling.Resolver, publisher *events.Publisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		manager:     manager,
		resolver:    resolver,
		translator:  trans,
		publisher:   publisher,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 时段管理（管理端）
	h.Mux.Route("/shift-windows", func(r chi.Router) {
		r.Post("/", h.CreateShiftWindow)
		r.Get("/", h.ListShiftWindows)
		r.Get("/{id}", h.GetShiftWindow)
	})

	// 以员工为维度的班次查询与创建
	h.Mux.Route("/employees/{employeeID}/shift-assignments", func(r chi.Router) {
		r.Get("/", h.ListShiftAssignments)
		r.Post("/", h.CreateShiftAssignment)
		r.Post("/find-or-create", h.FindOrCreateShiftAssignment)
		r.Get("/current", h.GetCurrentShift)
	})

	// 针对单条班次的操作
	h.Mux.Route("/shift-assignments", func(r chi.Router) {
		r.Post("/purge-inactive", h.PurgeInactiveAssignments)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.shiftAssignment)
			r.Patch("/", h.UpdateShiftAssignment)
			r.Delete("/", h.DeleteShiftAssignment)
			r.Post("/deactivate", h.DeactivateShiftAssignment)
			r.Post("/reactivate", h.ReactivateShiftAssignment)
		})
	})
}
