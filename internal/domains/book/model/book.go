package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: Book
// =====================================================

// Book is a catalog record. AvailableCopies is maintained by the
// availability operations and the transaction ledger; it never goes
// below zero or above TotalCopies.
type Book struct {
	ID              uuid.UUID       `json:"id"`
	ISBN            string          `json:"isbn"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	Publisher       string          `json:"publisher"`
	Genre           string          `json:"genre"`
	Price           decimal.Decimal `json:"price"`
	Pages           int             `json:"pages"`
	TotalCopies     int             `json:"total_copies"`
	AvailableCopies int             `json:"available_copies"`
	Rating          float64         `json:"rating"`
	CoverURL        *string         `json:"cover_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// HasAvailableCopy reports whether a borrow request can be accepted
func (b *Book) HasAvailableCopy() bool {
	return b.AvailableCopies > 0
}
