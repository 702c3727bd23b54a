package reward

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const policyRowID = 1

var accountColumns = []string{
	"id",
	"customer_id",
	"service_count",
	"free_service_available",
	"created_at",
	"updated_at",
}

// Repository репозиторий бонусных счетов и правила начисления
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бонусов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateAccount создает пустой бонусный счет клиента
// Если счет уже есть, возвращает существующий
func (r *Repository) CreateAccount(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reward_accounts").
		Columns("customer_id", "service_count", "free_service_available").
		Values(customerID, 0, false).
		Suffix("ON CONFLICT (customer_id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateAccount - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: CreateAccount - execute insert: %v", ErrExecQuery, err)
	}

	return r.getAccount(ctx, customerID, false, "CreateAccount")
}

// GetAccount получает бонусный счет клиента
func (r *Repository) GetAccount(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error) {
	return r.getAccount(ctx, customerID, false, "GetAccount")
}

// GetAccountForUpdate получает бонусный счет с блокировкой строки до конца транзакции
func (r *Repository) GetAccountForUpdate(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error) {
	return r.getAccount(ctx, customerID, dbmetrics.IsInTransaction(ctx), "GetAccountForUpdate")
}

func (r *Repository) getAccount(ctx context.Context, customerID uuid.UUID, forUpdate bool, op string) (*domain.RewardAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(accountColumns...).
		From("reward_accounts").
		Where(squirrel.Eq{"customer_id": customerID})
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	account, err := scanAccount(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan account: %v", ErrScanRow, op, err)
	}

	return account, nil
}

// UpdateAccount сохраняет счетчик и флаг бесплатной услуги
func (r *Repository) UpdateAccount(ctx context.Context, account *domain.RewardAccount) (*domain.RewardAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reward_accounts").
		Set("service_count", account.ServiceCount).
		Set("free_service_available", account.FreeServiceAvailable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"customer_id": account.CustomerID}).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateAccount - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateAccount - execute update: %v", ErrExecQuery, err)
	}

	return account, nil
}

// ListAccounts получает все бонусные счета, сначала последние измененные
func (r *Repository) ListAccounts(ctx context.Context) ([]*domain.RewardAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(accountColumns...).
		From("reward_accounts").
		OrderBy("updated_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAccounts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAccounts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	accounts := make([]*domain.RewardAccount, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAccounts - scan row: %v", ErrScanRow, err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAccounts - rows error: %v", ErrScanRow, err)
	}

	return accounts, nil
}

// GetPolicy получает текущее правило начисления
func (r *Repository) GetPolicy(ctx context.Context) (*domain.RewardPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("services_for_reward", "updated_at").
		From("reward_policy").
		Where(squirrel.Eq{"id": policyRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicy - build select query: %v", ErrBuildQuery, err)
	}

	var policy domain.RewardPolicy
	err = executor.QueryRowContext(ctx, query, args...).Scan(&policy.ServicesForReward, &policy.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicy - scan policy: %v", ErrScanRow, err)
	}

	return &policy, nil
}

// UpdatePolicy сохраняет правило начисления (создает строку, если её нет)
func (r *Repository) UpdatePolicy(ctx context.Context, policy *domain.RewardPolicy) (*domain.RewardPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reward_policy").
		Columns("id", "services_for_reward").
		Values(policyRowID, policy.ServicesForReward).
		Suffix("ON CONFLICT (id) DO UPDATE SET services_for_reward = EXCLUDED.services_for_reward, updated_at = NOW() RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePolicy - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&policy.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpdatePolicy - execute upsert: %v", ErrExecQuery, err)
	}

	return policy, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*domain.RewardAccount, error) {
	var a domain.RewardAccount
	err := row.Scan(&a.ID, &a.CustomerID, &a.ServiceCount, &a.FreeServiceAvailable, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
