package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Rating is one member's score for one book. A member rates a book at
// most once; rating again replaces the earlier score.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	BookID    uuid.UUID `json:"book_id"`
	Score     int       `json:"score"`
	Review    *string   `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RateRequest submits or replaces a rating
type RateRequest struct {
	Score  int     `json:"score"`
	Review *string `json:"review"`
}

func (r RateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Score, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Review, validation.Length(0, 2000)),
	)
}
