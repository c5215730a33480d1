package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/wishlist/model"
	"library-backend/internal/domains/wishlist/repository"
	"library-backend/internal/shared"
)

// Service is the wishlist business logic
type Service interface {
	Add(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (*model.Item, error)
	Remove(ctx context.Context, actor shared.Actor, bookID uuid.UUID) error
	Has(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (bool, error)
	ListMine(ctx context.Context, actor shared.Actor, page shared.PageRequest) ([]*model.Detail, int, error)
}

// wishlistService implements Service. Duplicate detection lives in the
// database unique constraint, so concurrent adds of the same pair still
// produce exactly one row.
type wishlistService struct {
	repo repository.Repository
}

// NewWishlistService wires the wishlist service
func NewWishlistService(repo repository.Repository) Service {
	return &wishlistService{repo: repo}
}

func (s *wishlistService) Add(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (*model.Item, error) {
	item := &model.Item{
		ID:        uuid.New(),
		MemberID:  actor.MemberID,
		BookID:    bookID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Add(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *wishlistService) Remove(ctx context.Context, actor shared.Actor, bookID uuid.UUID) error {
	return s.repo.Remove(ctx, actor.MemberID, bookID)
}

func (s *wishlistService) Has(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (bool, error) {
	return s.repo.Has(ctx, actor.MemberID, bookID)
}

func (s *wishlistService) ListMine(ctx context.Context, actor shared.Actor, page shared.PageRequest) ([]*model.Detail, int, error) {
	return s.repo.ListByMember(ctx, actor.MemberID, page)
}
