package model

import "errors"

// Error codes
const (
	ErrCodeTransactionNotFound = "TXN001"
	ErrCodeInvalidTransition   = "TXN002"
	ErrCodeForbidden           = "TXN003"
	ErrCodeDuplicateRequest    = "TXN004"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransition: the current status has no edge to the
	// requested one, or a concurrent transition got there first
	ErrInvalidTransition = errors.New("transaction status does not allow this transition")

	// ErrForbidden: the actor lacks authority over this transition
	ErrForbidden = errors.New("not allowed to perform this transition")

	ErrDuplicateRequest = errors.New("an open request for this book already exists")
)
