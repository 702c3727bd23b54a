package domain

import "errors"

// Error kinds shared by every layer.
// Package level sentinels wrap one of these so that the transport layer can
// map any error to a response with a single errors.Is check.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrSlotConflict = errors.New("slot conflict")
	ErrRewardUpdate = errors.New("reward update failed")
	ErrUnavailable  = errors.New("store unavailable")
)
