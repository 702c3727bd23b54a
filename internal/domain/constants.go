package domain

// Default values
const (
	DefaultServicesForReward = 10
)

// Business validation constants
const (
	MinDayOfWeek          = 0 // Sunday
	MaxDayOfWeek          = 6 // Saturday
	MinServicesForReward  = 1
	MaxClientNameLength   = 120
	MaxClientPhoneLength  = 32
	MaxServicesPerBooking = 10
)

// Time format constants
const (
	TimeFormat = "15:04:05"   // HH:MM:SS
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// RoleAdmin роль администратора в токене
const RoleAdmin = "admin"
