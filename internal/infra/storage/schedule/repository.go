package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var templateColumns = []string{"id", "day_of_week", "start_time", "end_time", "is_available"}

// Repository репозиторий недельного расписания
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот расписания
func (r *Repository) Create(ctx context.Context, template *domain.WeeklySlotTemplate) (*domain.WeeklySlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("weekly_slots").
		Columns("day_of_week", "start_time", "end_time", "is_available").
		Values(template.DayOfWeek, template.StartTime, template.EndTime, template.IsAvailable).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&template.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return template, nil
}

// Update обновляет слот расписания целиком
func (r *Repository) Update(ctx context.Context, template *domain.WeeklySlotTemplate) (*domain.WeeklySlotTemplate, error) {
	return r.update(ctx, "Update", template.ID, map[string]interface{}{
		"day_of_week":  template.DayOfWeek,
		"start_time":   template.StartTime,
		"end_time":     template.EndTime,
		"is_available": template.IsAvailable,
	})
}

// SetAvailable включает или выключает слот
func (r *Repository) SetAvailable(ctx context.Context, id int64, available bool) (*domain.WeeklySlotTemplate, error) {
	return r.update(ctx, "SetAvailable", id, map[string]interface{}{
		"is_available": available,
	})
}

func (r *Repository) update(ctx context.Context, op string, id int64, fields map[string]interface{}) (*domain.WeeklySlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("weekly_slots").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(templateColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	template, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	return template, nil
}

// Delete удаляет слот расписания
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("weekly_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotTemplateNotFound
	}

	return nil
}

// GetByID получает слот расписания по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WeeklySlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("weekly_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	template, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot template: %v", ErrScanRow, err)
	}

	return template, nil
}

// List получает все слоты расписания по дню недели и времени начала
func (r *Repository) List(ctx context.Context) ([]*domain.WeeklySlotTemplate, error) {
	return r.list(ctx, "List", psqlbuilder.Select(templateColumns...).
		From("weekly_slots").
		OrderBy("day_of_week ASC", "start_time ASC", "id ASC"))
}

// ListAvailableByDay получает включенные слоты для дня недели
func (r *Repository) ListAvailableByDay(ctx context.Context, dayOfWeek int) ([]*domain.WeeklySlotTemplate, error) {
	return r.list(ctx, "ListAvailableByDay", psqlbuilder.Select(templateColumns...).
		From("weekly_slots").
		Where(squirrel.Eq{"day_of_week": dayOfWeek, "is_available": true}).
		OrderBy("start_time ASC", "id ASC"))
}

// FindAvailable ищет включенный слот для дня недели с точным временем начала
func (r *Repository) FindAvailable(ctx context.Context, dayOfWeek int, startTime types.TimeString) (*domain.WeeklySlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("weekly_slots").
		Where(squirrel.Eq{"day_of_week": dayOfWeek, "start_time": startTime, "is_available": true}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - build select query: %v", ErrBuildQuery, err)
	}

	template, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - scan slot template: %v", ErrScanRow, err)
	}

	return template, nil
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.WeeklySlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	templates := make([]*domain.WeeklySlotTemplate, 0)
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return templates, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*domain.WeeklySlotTemplate, error) {
	var t domain.WeeklySlotTemplate
	if err := row.Scan(&t.ID, &t.DayOfWeek, &t.StartTime, &t.EndTime, &t.IsAvailable); err != nil {
		return nil, err
	}
	return &t, nil
}
