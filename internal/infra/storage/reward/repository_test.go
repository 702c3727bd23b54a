package reward

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
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

	return dbmetrics.Wrap(db, nil)
}

func TestRepository_AccountLifecycle(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()
	customer := uuid.New()

	_, err := repo.GetAccount(ctx, customer)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	created, err := repo.CreateAccount(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, 0, created.ServiceCount)
	assert.False(t, created.FreeServiceAvailable)

	again, err := repo.CreateAccount(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	created.ServiceCount = 4
	_, err = repo.UpdateAccount(ctx, created)
	require.NoError(t, err)

	got, err := repo.GetAccount(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, 4, got.ServiceCount)

	_, err = repo.UpdateAccount(ctx, &domain.RewardAccount{CustomerID: uuid.New()})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRepository_Policy(t *testing.T) {
	repo := NewRepository(setupDB(t))
	ctx := context.Background()

	updated, err := repo.UpdatePolicy(ctx, &domain.RewardPolicy{ServicesForReward: 5})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.IsZero())

	policy, err := repo.GetPolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, policy.ServicesForReward)

	_, err = repo.UpdatePolicy(ctx, &domain.RewardPolicy{ServicesForReward: domain.DefaultServicesForReward})
	require.NoError(t, err)
}
