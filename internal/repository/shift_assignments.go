package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

func (r *Repository) listAssignments(ctx context.Context, query string, args ...any) ([]*domain.ShiftAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.ShiftAssignment, 0)
	for rows.Next() {
		assignment := &domain.ShiftAssignment{
			Window: &domain.ShiftWindow{},
		}

		dst := []any{
			&assignment.ID,
			&assignment.EmployeeID,
			&assignment.WindowID,
			&assignment.SortOrder,
			&assignment.Weekdays,
			&assignment.WeeksOfMonth,
			&assignment.DisplayName,
			&assignment.IsActive,
			&assignment.CreatedAt,
			&assignment.Window.ID,
			&assignment.Window.Name,
			&assignment.Window.StartTime,
			&assignment.Window.EndTime,
			&assignment.Window.DefaultWeekdays,
			&assignment.Window.AllowedPauseMinutes,
			&assignment.Window.IsActive,
			&assignment.Window.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) ListActiveAssignmentsByEmployee(ctx context.Context, employeeID string) ([]*domain.ShiftAssignment, error) {
	query := `
		SELECT
			a.id, a.employee_id, a.window_id, a.sort_order, a.weekdays, a.weeks_of_month, a.display_name, a.is_active, a.created_at,
			w.id, w.name, w.start_time, w.end_time, w.default_weekdays, w.allowed_pause_minutes, w.is_active, w.created_at
		FROM shift_assignments a
		JOIN shift_windows w ON w.id = a.window_id
		WHERE a.employee_id = $1 AND a.is_active = TRUE
		ORDER BY a.sort_order, a.id
	`

	return r.listAssignments(ctx, query, employeeID)
}

func (r *Repository) ListAssignmentsByEmployee(ctx context.Context, employeeID string, includeInactive bool) ([]*domain.ShiftAssignment, error) {
	if !includeInactive {
		return r.ListActiveAssignmentsByEmployee(ctx, employeeID)
	}

	query := `
		SELECT
			a.id, a.employee_id, a.window_id, a.sort_order, a.weekdays, a.weeks_of_month, a.display_name, a.is_active, a.created_at,
			w.id, w.name, w.start_time, w.end_time, w.default_weekdays, w.allowed_pause_minutes, w.is_active, w.created_at
		FROM shift_assignments a
		JOIN shift_windows w ON w.id = a.window_id
		WHERE a.employee_id = $1
		ORDER BY a.sort_order, a.id
	`

	return r.listAssignments(ctx, query, employeeID)
}

func (r *Repository) GetShiftAssignment(ctx context.Context, id int64) (*domain.ShiftAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			a.employee_id, a.window_id, a.sort_order, a.weekdays, a.weeks_of_month, a.display_name, a.is_active, a.created_at,
			w.id, w.name, w.start_time, w.end_time, w.default_weekdays, w.allowed_pause_minutes, w.is_active, w.created_at
		FROM shift_assignments a
		JOIN shift_windows w ON w.id = a.window_id
		WHERE a.id = $1
	`

	assignment := &domain.ShiftAssignment{
		ID:     id,
		Window: &domain.ShiftWindow{},
	}

	dst := []any{
		&assignment.EmployeeID,
		&assignment.WindowID,
		&assignment.SortOrder,
		&assignment.Weekdays,
		&assignment.WeeksOfMonth,
		&assignment.DisplayName,
		&assignment.IsActive,
		&assignment.CreatedAt,
		&assignment.Window.ID,
		&assignment.Window.Name,
		&assignment.Window.StartTime,
		&assignment.Window.EndTime,
		&assignment.Window.DefaultWeekdays,
		&assignment.Window.AllowedPauseMinutes,
		&assignment.Window.IsActive,
		&assignment.Window.CreatedAt,
	}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return assignment, nil
}

func (r *Repository) InsertShiftAssignment(ctx context.Context, assignment *domain.ShiftAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO shift_assignments (employee_id, window_id, sort_order, weekdays, weeks_of_month, display_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	args := []any{assignment.EmployeeID, assignment.WindowID, assignment.SortOrder, assignment.Weekdays, assignment.WeeksOfMonth, assignment.DisplayName, assignment.IsActive}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&assignment.ID, &assignment.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShiftAssignment(ctx context.Context, assignment *domain.ShiftAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE shift_assignments
		SET
			window_id = $1,
			sort_order = $2,
			weekdays = $3,
			weeks_of_month = $4,
			display_name = $5,
			is_active = $6
		WHERE id = $7
	`

	args := []any{assignment.WindowID, assignment.SortOrder, assignment.Weekdays, assignment.WeeksOfMonth, assignment.DisplayName, assignment.IsActive, assignment.ID}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *Repository) SetShiftAssignmentActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE shift_assignments SET is_active = $2 WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *Repository) DeleteShiftAssignment(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// 只删除已停用的记录，启用中的班次必须先停用
	query := `
		DELETE FROM shift_assignments WHERE id = $1 AND is_active = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *Repository) FindEquivalentInactiveAssignment(ctx context.Context, employeeID string, windowID int64, weekdays domain.WeekdaySet, weeksOfMonth domain.WeekOfMonthSet) (*domain.ShiftAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, sort_order, display_name, created_at
		FROM shift_assignments
		WHERE employee_id = $1 AND window_id = $2 AND weekdays = $3 AND weeks_of_month = $4 AND is_active = FALSE
		ORDER BY id
		LIMIT 1
	`

	assignment := &domain.ShiftAssignment{
		EmployeeID:   employeeID,
		WindowID:     windowID,
		Weekdays:     weekdays,
		WeeksOfMonth: weeksOfMonth,
	}

	dst := []any{&assignment.ID, &assignment.SortOrder, &assignment.DisplayName, &assignment.CreatedAt}
	if err := r.db.QueryRowContext(ctx, query, employeeID, windowID, weekdays, weeksOfMonth).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return assignment, nil
}

func (r *Repository) PurgeInactiveAssignments(ctx context.Context, employeeID *string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var (
		result sql.Result
		err    error
	)
	if employeeID != nil {
		result, err = r.db.ExecContext(ctx, `DELETE FROM shift_assignments WHERE is_active = FALSE AND employee_id = $1`, *employeeID)
	} else {
		result, err = r.db.ExecContext(ctx, `DELETE FROM shift_assignments WHERE is_active = FALSE`)
	}
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
