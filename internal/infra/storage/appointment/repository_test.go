package appointment

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Тесты репозитория работают с настоящей БД и пропускаются без TEST_DATABASE_DSN
func setupDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../../../migrations/0001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	_, err = db.Exec("TRUNCATE appointment_services, appointments RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return dbmetrics.Wrap(db, nil)
}

func newAppointment(date time.Time, start string) *domain.Appointment {
	return &domain.Appointment{
		Customer:    domain.SomeCustomer(uuid.New()),
		BookingDate: date,
		StartTime:   types.MustTimeString(start),
		Status:      domain.StatusBooked,
		ClientName:  "Ana",
		ClientPhone: "+5511999999999",
		Services: []domain.ServiceRef{
			{ServiceID: 1, Name: "Haircut", Price: 50, DurationMinutes: 30},
			{ServiceID: 2, Name: "Beard", Price: 30, DurationMinutes: 20},
		},
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	date := time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, newAppointment(date, "09:00"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, date, got.BookingDate)
	assert.Equal(t, types.TimeString("09:00:00"), got.StartTime)
	assert.Len(t, got.Services, 2)
	assert.Equal(t, 80.0, got.TotalPrice())

	exists, err := repo.ExistsActiveAtSlot(ctx, date, "09:00:00")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByID(ctx, created.ID+1000)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_UniqueActiveSlot(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	date := time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, newAppointment(date, "10:00"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAppointment(date, "10:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.ErrorIs(t, err, domain.ErrSlotConflict)

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, domain.StatusCancelled))

	cancelled, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = repo.Create(ctx, newAppointment(date, "10:00"))
	assert.NoError(t, err)
}

func TestRepository_ConcurrentCreateSameSlot(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	txm := txmanager.NewTransactionManager(db)
	date := time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- txm.Do(context.Background(), func(ctx context.Context) error {
				if err := repo.LockSlot(ctx, date, "11:00:00"); err != nil {
					return err
				}
				taken, err := repo.ExistsActiveAtSlot(ctx, date, "11:00:00")
				if err != nil {
					return err
				}
				if taken {
					return ErrSlotTaken
				}
				_, err = repo.Create(ctx, newAppointment(date, "11:00"))
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)

	var success, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, attempts-1, conflicts)
}

func TestRepository_IdempotencyKeyAndList(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	date := time.Date(2030, 3, 6, 0, 0, 0, 0, time.UTC)
	key := uuid.New()

	a := newAppointment(date, "14:00")
	a.IdempotencyKey = &key
	created, err := repo.Create(ctx, a)
	require.NoError(t, err)

	got, err := repo.GetByIdempotencyKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.Create(ctx, newAppointment(date, "08:00"))
	require.NoError(t, err)

	list, err := repo.List(ctx, domain.AppointmentsFilter{Date: &date})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, types.TimeString("08:00:00"), list[0].StartTime)
	assert.Len(t, list[1].Services, 2)

	customer, _ := created.Customer.Get()
	own, err := repo.List(ctx, domain.AppointmentsFilter{Customer: &customer})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, created.ID, own[0].ID)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, domain.StatusCancelled))

	history, err := repo.List(ctx, domain.AppointmentsFilter{Date: &date})
	require.NoError(t, err)
	assert.Len(t, history, 2)

	active, err := repo.List(ctx, domain.AppointmentsFilter{Date: &date, ExcludeCancelled: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, types.TimeString("08:00:00"), active[0].StartTime)
}

func TestRepository_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := NewRepository(nil)
	err := repo.UpdateStatus(context.Background(), 1, domain.AppointmentStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepository_LockRequiresTransaction(t *testing.T) {
	repo := NewRepository(nil)
	err := repo.LockSlot(context.Background(), time.Now(), "09:00:00")
	assert.ErrorIs(t, err, ErrNoTransaction)
}
