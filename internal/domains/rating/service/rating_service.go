package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/rating/model"
	"library-backend/internal/domains/rating/repository"
	"library-backend/internal/shared"
)

// Service is the rating business logic
type Service interface {
	// Rate submits or replaces the actor's score for the book, then
	// recomputes the mean and writes it back to the catalog row.
	Rate(ctx context.Context, actor shared.Actor, bookID uuid.UUID, req model.RateRequest) (*model.Rating, error)

	GetMine(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (*model.Rating, error)
	MeanScore(ctx context.Context, bookID uuid.UUID) (float64, error)
	ListByBook(ctx context.Context, bookID uuid.UUID, page shared.PageRequest) ([]*model.Rating, int, error)
}

// BookRatingWriter is the slice of the catalog the rating service writes
type BookRatingWriter interface {
	UpdateRating(ctx context.Context, id uuid.UUID, mean float64) error
}

// ViewInvalidator is the revalidation hook fired after successful mutations
type ViewInvalidator interface {
	Invalidate(ctx context.Context, views ...string)
}

// ratingService implements Service
type ratingService struct {
	repo        repository.Repository
	books       BookRatingWriter
	invalidator ViewInvalidator
}

// NewRatingService wires the rating service
func NewRatingService(repo repository.Repository, books BookRatingWriter, invalidator ViewInvalidator) Service {
	return &ratingService{repo: repo, books: books, invalidator: invalidator}
}

func (s *ratingService) Rate(ctx context.Context, actor shared.Actor, bookID uuid.UUID, req model.RateRequest) (*model.Rating, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	rating := &model.Rating{
		ID:        uuid.New(),
		MemberID:  actor.MemberID,
		BookID:    bookID,
		Score:     req.Score,
		Review:    req.Review,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	// Write the new mean back so the catalog row stays consistent with
	// the rating rows without aggregating on every read.
	mean, err := s.repo.MeanScore(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := s.books.UpdateRating(ctx, bookID, mean); err != nil {
		return nil, err
	}

	log.Info().
		Str("book_id", bookID.String()).
		Str("member_id", actor.MemberID.String()).
		Int("score", req.Score).
		Float64("mean", mean).
		Msg("book rated")

	s.invalidator.Invalidate(ctx, "/books/"+bookID.String())
	return rating, nil
}

func (s *ratingService) GetMine(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (*model.Rating, error) {
	return s.repo.GetByMemberAndBook(ctx, actor.MemberID, bookID)
}

func (s *ratingService) MeanScore(ctx context.Context, bookID uuid.UUID) (float64, error) {
	return s.repo.MeanScore(ctx, bookID)
}

func (s *ratingService) ListByBook(ctx context.Context, bookID uuid.UUID, page shared.PageRequest) ([]*model.Rating, int, error) {
	return s.repo.ListByBook(ctx, bookID, page)
}
