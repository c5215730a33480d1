package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Member is a registered library member
type Member struct {
	ID           uuid.UUID       `json:"id"`
	FullName     string          `json:"full_name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         string          `json:"role"`
	Credit       decimal.Decimal `json:"credit"`
	ImageURL     *string         `json:"image_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
