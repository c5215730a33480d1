package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateBookRequest - admin adds a book to the catalog
type CreateBookRequest struct {
	ISBN        string          `json:"isbn" binding:"required"`
	Title       string          `json:"title" binding:"required"`
	Author      string          `json:"author" binding:"required"`
	Publisher   string          `json:"publisher"`
	Genre       string          `json:"genre"`
	Price       decimal.Decimal `json:"price"`
	Pages       int             `json:"pages"`
	TotalCopies int             `json:"total_copies" binding:"required"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ISBN,
			validation.Required.Error("isbn is required"),
			is.ISBN.Error("invalid ISBN"),
		),
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Publisher, validation.Length(0, 255)),
		validation.Field(&r.Genre, validation.Length(0, 100)),
		validation.Field(&r.Pages, validation.Min(0)),
		validation.Field(&r.TotalCopies,
			validation.Required.Error("total_copies is required"),
			validation.Min(1).Error("a book needs at least one copy"),
		),
	)
}

// UpdateBookRequest - admin edits catalog metadata.
// Copy counts are adjusted through the availability operations, not here.
type UpdateBookRequest struct {
	Title     string          `json:"title" binding:"required"`
	Author    string          `json:"author" binding:"required"`
	Publisher string          `json:"publisher"`
	Genre     string          `json:"genre"`
	Price     decimal.Decimal `json:"price"`
	Pages     int             `json:"pages"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Publisher, validation.Length(0, 255)),
		validation.Field(&r.Genre, validation.Length(0, 100)),
		validation.Field(&r.Pages, validation.Min(0)),
	)
}

// ListBooksFilter narrows the catalog listing
type ListBooksFilter struct {
	Search string // matches title/author/isbn
	Genre  string
}
