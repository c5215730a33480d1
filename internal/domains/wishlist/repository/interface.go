package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/wishlist/model"
	"library-backend/internal/shared"
)

// Repository is the wishlist store
type Repository interface {
	// Add pins the book on the member's wishlist. Returns
	// model.ErrAlreadyInWishlist when the pair exists.
	Add(ctx context.Context, item *model.Item) error

	// Remove unpins the book. Returns model.ErrNotInWishlist when the
	// pair does not exist.
	Remove(ctx context.Context, memberID, bookID uuid.UUID) error

	Has(ctx context.Context, memberID, bookID uuid.UUID) (bool, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, page shared.PageRequest) ([]*model.Detail, int, error)
}
