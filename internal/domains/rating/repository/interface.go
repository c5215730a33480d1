package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/rating/model"
	"library-backend/internal/shared"
)

// Repository is the rating store
type Repository interface {
	// Upsert inserts the rating or replaces the member's earlier score
	// for the same book.
	Upsert(ctx context.Context, rating *model.Rating) error

	GetByMemberAndBook(ctx context.Context, memberID, bookID uuid.UUID) (*model.Rating, error)

	// MeanScore aggregates the current mean over all ratings of the
	// book. Zero with no error when the book has no ratings.
	MeanScore(ctx context.Context, bookID uuid.UUID) (float64, error)

	ListByBook(ctx context.Context, bookID uuid.UUID, page shared.PageRequest) ([]*model.Rating, int, error)
}
