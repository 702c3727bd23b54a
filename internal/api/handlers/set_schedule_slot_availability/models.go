package set_schedule_slot_availability

// SetAvailabilityRequest HTTP запрос на включение или выключение слота
type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}
