package update_reward_policy

// UpdatePolicyRequest HTTP запрос на изменение порога бонуса
type UpdatePolicyRequest struct {
	ServicesForReward *int `json:"servicesForReward"`
}
