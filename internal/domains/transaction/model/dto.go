package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// CreateRequestRequest opens a new borrow request
type CreateRequestRequest struct {
	BookID string `json:"book_id"`
}

func (r CreateRequestRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, is.UUID),
	)
}

// ListFilter narrows transaction listings
type ListFilter struct {
	Status   Status
	MemberID *uuid.UUID
}

func (f ListFilter) Validate() error {
	if f.Status == "" {
		return nil
	}
	if !f.Status.Valid() {
		return validation.NewError("validation_status", "unknown transaction status")
	}
	return nil
}
