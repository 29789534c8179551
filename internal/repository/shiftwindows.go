package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

func (r *Repository) CreateShiftWindow(ctx context.Context, window *domain.ShiftWindow) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO shift_windows (name, start_time, end_time, default_weekdays, allowed_pause_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	args := []any{window.Name, window.StartTime, window.EndTime, window.DefaultWeekdays, window.AllowedPauseMinutes, window.IsActive}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&window.ID, &window.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftWindow(ctx context.Context, id int64) (*domain.ShiftWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, start_time, end_time, default_weekdays, allowed_pause_minutes, is_active, created_at
		FROM shift_windows WHERE id = $1
	`

	window := &domain.ShiftWindow{
		ID: id,
	}

	dst := []any{&window.Name, &window.StartTime, &window.EndTime, &window.DefaultWeekdays, &window.AllowedPauseMinutes, &window.IsActive, &window.CreatedAt}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return window, nil
}

func (r *Repository) ListShiftWindows(ctx context.Context, activeOnly bool) ([]*domain.ShiftWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, start_time, end_time, default_weekdays, allowed_pause_minutes, is_active, created_at
		FROM shift_windows
	`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := make([]*domain.ShiftWindow, 0)
	for rows.Next() {
		window := &domain.ShiftWindow{}
		dst := []any{&window.ID, &window.Name, &window.StartTime, &window.EndTime, &window.DefaultWeekdays, &window.AllowedPauseMinutes, &window.IsActive, &window.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return windows, nil
}
