package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewardAccount_Accrue(t *testing.T) {
	tests := []struct {
		name         string
		account      RewardAccount
		threshold    int
		wantCount    int
		wantFree     bool
		wantUnlocked bool
	}{
		{
			name:      "below threshold increments",
			account:   RewardAccount{ServiceCount: 2},
			threshold: 5,
			wantCount: 3,
		},
		{
			name:         "reaching threshold unlocks and resets",
			account:      RewardAccount{ServiceCount: 4},
			threshold:    5,
			wantCount:    0,
			wantFree:     true,
			wantUnlocked: true,
		},
		{
			name:      "available free service stays sticky",
			account:   RewardAccount{ServiceCount: 0, FreeServiceAvailable: true},
			threshold: 5,
			wantCount: 0,
			wantFree:  true,
		},
		{
			name:         "threshold of one unlocks on first service",
			account:      RewardAccount{},
			threshold:    1,
			wantCount:    0,
			wantFree:     true,
			wantUnlocked: true,
		},
		{
			name:         "count above lowered threshold unlocks",
			account:      RewardAccount{ServiceCount: 8},
			threshold:    3,
			wantCount:    0,
			wantFree:     true,
			wantUnlocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := tt.account
			unlocked := acc.Accrue(tt.threshold)

			assert.Equal(t, tt.wantUnlocked, unlocked)
			assert.Equal(t, tt.wantCount, acc.ServiceCount)
			assert.Equal(t, tt.wantFree, acc.FreeServiceAvailable)
		})
	}
}

func TestRewardAccount_ThresholdFiveScenario(t *testing.T) {
	acc := RewardAccount{}

	for i := 1; i <= 4; i++ {
		acc.Accrue(5)
		assert.Equal(t, i, acc.ServiceCount)
		assert.False(t, acc.FreeServiceAvailable)
	}

	acc.Accrue(5)
	assert.Equal(t, 0, acc.ServiceCount)
	assert.True(t, acc.FreeServiceAvailable)

	acc.Accrue(5)
	assert.Equal(t, 0, acc.ServiceCount)
	assert.True(t, acc.FreeServiceAvailable)

	acc.Redeem()
	assert.Equal(t, 0, acc.ServiceCount)
	assert.False(t, acc.FreeServiceAvailable)
}

func TestRewardAccount_GrantKeepsCounter(t *testing.T) {
	acc := RewardAccount{ServiceCount: 3}
	acc.Grant()

	assert.True(t, acc.FreeServiceAvailable)
	assert.Equal(t, 3, acc.ServiceCount)
}

func TestRewardPolicy_Validate(t *testing.T) {
	assert.NoError(t, (&RewardPolicy{ServicesForReward: 1}).Validate())
	assert.ErrorIs(t, (&RewardPolicy{ServicesForReward: 0}).Validate(), ErrValidation)
}
