package model

import "errors"

// Error codes
const (
	ErrCodeBookNotFound      = "BOOK001"
	ErrCodeISBNAlreadyExists = "BOOK002"
	ErrCodeNoCopiesAvailable = "BOOK003"
	ErrCodeAllCopiesOnShelf  = "BOOK004"
	ErrCodeBookHasActiveLoan = "BOOK005"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrISBNAlreadyExists = errors.New("a book with this ISBN already exists")

	// ErrNoCopiesAvailable: reserve would drive available copies below zero
	ErrNoCopiesAvailable = errors.New("no copies available")

	// ErrAllCopiesOnShelf: release would exceed the total copy count
	ErrAllCopiesOnShelf = errors.New("all copies are already on the shelf")

	ErrBookHasActiveLoan = errors.New("book has issued or pending transactions")
)
