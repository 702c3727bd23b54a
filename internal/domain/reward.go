package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RewardAccount tracks completed services of a customer toward a free one
type RewardAccount struct {
	ID                   int64
	CustomerID           uuid.UUID
	ServiceCount         int
	FreeServiceAvailable bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Accrue records one more service under the given threshold.
// Reaching the threshold, or an already available free service, leaves the
// account with the free service flag set and the counter reset.
// Returns true if this call unlocked the free service.
func (a *RewardAccount) Accrue(threshold int) bool {
	newCount := a.ServiceCount + 1
	if newCount >= threshold || a.FreeServiceAvailable {
		unlocked := !a.FreeServiceAvailable
		a.ServiceCount = 0
		a.FreeServiceAvailable = true
		return unlocked
	}
	a.ServiceCount = newCount
	return false
}

// Grant makes a free service available without touching the counter
func (a *RewardAccount) Grant() {
	a.FreeServiceAvailable = true
}

// Redeem consumes the free service and resets the counter
func (a *RewardAccount) Redeem() {
	a.FreeServiceAvailable = false
	a.ServiceCount = 0
}

// RewardPolicy is the business wide accrual rule
type RewardPolicy struct {
	ServicesForReward int
	UpdatedAt         time.Time
}

// Validate checks the policy invariants
func (p *RewardPolicy) Validate() error {
	if p.ServicesForReward < MinServicesForReward {
		return fmt.Errorf("%w: services for reward must be at least %d, got %d",
			ErrValidation, MinServicesForReward, p.ServicesForReward)
	}
	return nil
}
