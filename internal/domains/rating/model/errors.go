package model

import "errors"

// Error codes
const (
	ErrCodeRatingNotFound = "RATE001"
)

var (
	ErrRatingNotFound = errors.New("rating not found")
)
