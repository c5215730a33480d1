package model

import "errors"

// Error codes
const (
	ErrCodeAlreadyInWishlist = "WISH001"
	ErrCodeNotInWishlist     = "WISH002"
)

var (
	ErrAlreadyInWishlist = errors.New("book is already on the wishlist")
	ErrNotInWishlist     = errors.New("book is not on the wishlist")
)
