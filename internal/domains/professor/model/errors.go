package model

import "errors"

// Error codes
const (
	ErrCodeProfessorNotFound  = "PROF001"
	ErrCodeEmailAlreadyExists = "PROF002"
)

var (
	ErrProfessorNotFound  = errors.New("professor not found")
	ErrEmailAlreadyExists = errors.New("a professor with this email already exists")
)
