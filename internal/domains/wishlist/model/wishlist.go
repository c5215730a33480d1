package model

import (
	"time"

	"github.com/google/uuid"
)

// Item is one book pinned on a member's wishlist. The (member, book)
// pair is unique; adding twice is a conflict, not a second row.
type Item struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	BookID    uuid.UUID `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Detail is a wishlist item joined with the book it points to
type Detail struct {
	Item
	BookTitle     string  `json:"book_title"`
	BookAuthor    string  `json:"book_author"`
	BookGenre     string  `json:"book_genre"`
	BookCoverURL  *string `json:"book_cover_url,omitempty"`
	BookAvailable bool    `json:"book_available"`
}
