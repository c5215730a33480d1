package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Professor is a staff member students can book appointments with.
// Email is the join key against the scheduling provider's invitee list.
type Professor struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	Bio         string    `json:"bio,omitempty"`
	CalendlyURL *string   `json:"calendly_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProfessorRequest adds a professor to the directory
type CreateProfessorRequest struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Department  string  `json:"department"`
	Bio         string  `json:"bio"`
	CalendlyURL *string `json:"calendly_url"`
}

func (r CreateProfessorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Department, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.CalendlyURL, is.URL),
	)
}

// UpdateProfessorRequest edits a directory entry
type UpdateProfessorRequest struct {
	FullName    string  `json:"full_name"`
	Department  string  `json:"department"`
	Bio         string  `json:"bio"`
	CalendlyURL *string `json:"calendly_url"`
}

func (r UpdateProfessorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Department, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.CalendlyURL, is.URL),
	)
}
