package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/shared"
)

// Repository is the member account store
type Repository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	GetByEmail(ctx context.Context, email string) (*model.Member, error)
	Update(ctx context.Context, member *model.Member) error
	List(ctx context.Context, page shared.PageRequest) ([]*model.Member, int, error)
}
