package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasAvailableCopy(t *testing.T) {
	assert.True(t, (&Book{TotalCopies: 3, AvailableCopies: 1}).HasAvailableCopy())
	assert.False(t, (&Book{TotalCopies: 3, AvailableCopies: 0}).HasAvailableCopy())
}

func TestCreateBookRequestValidation(t *testing.T) {
	valid := CreateBookRequest{
		ISBN:        "978-0134190440",
		Title:       "The Go Programming Language",
		Author:      "Donovan & Kernighan",
		Publisher:   "Addison-Wesley",
		Genre:       "Programming",
		Pages:       380,
		TotalCopies: 3,
	}
	require.NoError(t, valid.Validate())

	noISBN := valid
	noISBN.ISBN = ""
	assert.Error(t, noISBN.Validate())

	badISBN := valid
	badISBN.ISBN = "not-an-isbn"
	assert.Error(t, badISBN.Validate())

	zeroCopies := valid
	zeroCopies.TotalCopies = 0
	assert.Error(t, zeroCopies.Validate(), "a catalog entry needs at least one copy")

	noTitle := valid
	noTitle.Title = ""
	assert.Error(t, noTitle.Validate())
}

func TestUpdateBookRequestValidation(t *testing.T) {
	valid := UpdateBookRequest{
		Title:  "Updated Title",
		Author: "Updated Author",
	}
	require.NoError(t, valid.Validate())

	negativePages := valid
	negativePages.Pages = -1
	assert.Error(t, negativePages.Validate())
}
