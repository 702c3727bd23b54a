package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	uniqueViolationCode = "23505"

	activeSlotConstraint     = "appointments_active_slot_uidx"
	idempotencyKeyConstraint = "appointments_idempotency_key_uidx"
)

var appointmentColumns = []string{
	"id",
	"customer_id",
	"booking_date",
	"start_time",
	"status",
	"client_name",
	"client_phone",
	"idempotency_key",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockSlot берет транзакционную advisory-блокировку на дату и время
// Блокировка снимается при завершении транзакции, поэтому без транзакции в контексте не работает
func (r *Repository) LockSlot(ctx context.Context, date time.Time, startTime types.TimeString) error {
	return r.lock(ctx, "slot:"+date.Format(domain.DateFormat)+"T"+startTime.String())
}

// LockIdempotencyKey берет транзакционную advisory-блокировку на ключ идемпотентности
func (r *Repository) LockIdempotencyKey(ctx context.Context, key uuid.UUID) error {
	return r.lock(ctx, "idem:"+key.String())
}

func (r *Repository) lock(ctx context.Context, key string) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNoTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("%w: lock %q: %v", ErrExecQuery, key, err)
	}
	return nil
}

// Create создает запись вместе со снимком услуг
// Вызывать в транзакции: запись и услуги должны появиться атомарно
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_id",
			"booking_date",
			"start_time",
			"status",
			"client_name",
			"client_phone",
			"idempotency_key",
		).
		Values(
			appointment.Customer,
			appointment.BookingDate.Format(domain.DateFormat),
			appointment.StartTime,
			appointment.Status,
			appointment.ClientName,
			appointment.ClientPhone,
			appointment.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appointment.ID,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.insertServices(ctx, executor, appointment.ID, appointment.Services); err != nil {
		return nil, err
	}

	return appointment, nil
}

func (r *Repository) insertServices(ctx context.Context, executor DBExecutor, appointmentID int64, services []domain.ServiceRef) error {
	if len(services) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("appointment_services").
		Columns("appointment_id", "service_id", "name", "price", "duration_minutes")
	for _, s := range services {
		insert = insert.Values(appointmentID, s.ServiceID, s.Name, s.Price, s.DurationMinutes)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertServices - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertServices - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает запись по ID вместе с услугами
// В транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	appointment, err := r.getOne(ctx, executor, selectBuilder, "GetByID")
	if err != nil {
		return nil, err
	}

	if err := r.hydrateServices(ctx, executor, []*domain.Appointment{appointment}); err != nil {
		return nil, err
	}

	return appointment, nil
}

// GetByIdempotencyKey получает запись по ключу идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"idempotency_key": key})

	appointment, err := r.getOne(ctx, executor, selectBuilder, "GetByIdempotencyKey")
	if err != nil {
		return nil, err
	}

	if err := r.hydrateServices(ctx, executor, []*domain.Appointment{appointment}); err != nil {
		return nil, err
	}

	return appointment, nil
}

// ExistsActiveAtSlot проверяет, есть ли неотмененная запись на точные дату и время
func (r *Repository) ExistsActiveAtSlot(ctx context.Context, date time.Time, startTime types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("appointments").
		Where(squirrel.Eq{
			"booking_date": date.Format(domain.DateFormat),
			"start_time":   startTime,
		}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveAtSlot - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveAtSlot - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// GetActiveByDate получает неотмененные записи на дату, отсортированные по времени
// Услуги не подгружаются: достаточно времени начала
func (r *Repository) GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// List получает записи по фильтру, отсортированные по дате и времени
// Услуги подгружаются вторым запросом по списку ID
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		OrderBy("booking_date ASC", "start_time ASC", "id ASC")

	if filter.Customer != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.Customer})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": filter.Date.Format(domain.DateFormat)})
	}
	if filter.ExcludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.hydrateServices(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// UpdateStatus меняет статус записи
// При отмене дополнительно проставляется cancelled_at
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: UpdateStatus - %q", ErrInvalidStatus, status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if status == domain.StatusCancelled {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, executor DBExecutor, selectBuilder squirrel.SelectBuilder, op string) (*domain.Appointment, error) {
	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	appointment, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	return appointment, nil
}

// hydrateServices подгружает услуги для списка записей одним запросом
func (r *Repository) hydrateServices(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(appointments))
	byID := make(map[int64]*domain.Appointment, len(appointments))
	for _, a := range appointments {
		ids = append(ids, a.ID)
		byID[a.ID] = a
		a.Services = make([]domain.ServiceRef, 0)
	}

	query, args, err := psqlbuilder.Select(
		"appointment_id",
		"service_id",
		"name",
		"price",
		"duration_minutes",
	).
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "service_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: hydrateServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: hydrateServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID int64
		var s domain.ServiceRef
		if err := rows.Scan(&appointmentID, &s.ServiceID, &s.Name, &s.Price, &s.DurationMinutes); err != nil {
			return fmt.Errorf("%w: hydrateServices - scan row: %v", ErrScanRow, err)
		}
		if a, ok := byID[appointmentID]; ok {
			a.Services = append(a.Services, s)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: hydrateServices - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var idempotencyKey uuid.NullUUID
	var cancelledAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.Customer,
		&a.BookingDate,
		&a.StartTime,
		&a.Status,
		&a.ClientName,
		&a.ClientPhone,
		&idempotencyKey,
		&cancelledAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.BookingDate = civilDate(a.BookingDate)
	if idempotencyKey.Valid {
		key := idempotencyKey.UUID
		a.IdempotencyKey = &key
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		a.CancelledAt = &t
	}

	return &a, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// civilDate приводит дату из DATE колонки к полуночи UTC
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mapUniqueViolation переводит нарушение уникальных индексов в ошибки репозитория
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolationCode {
		return nil
	}

	switch pqErr.Constraint {
	case activeSlotConstraint:
		return ErrSlotTaken
	case idempotencyKeyConstraint:
		return ErrDuplicateIdempotencyKey
	default:
		return nil
	}
}
