package model

import "errors"

// Error codes
const (
	ErrCodeMemberNotFound     = "MEM001"
	ErrCodeEmailAlreadyExists = "MEM002"
	ErrCodeInvalidCredentials = "MEM003"
)

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrEmailAlreadyExists = errors.New("a member with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
