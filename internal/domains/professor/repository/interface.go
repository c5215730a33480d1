package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/professor/model"
	"library-backend/internal/shared"
)

// Repository is the professor directory store
type Repository interface {
	Create(ctx context.Context, professor *model.Professor) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Professor, error)
	Update(ctx context.Context, professor *model.Professor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, page shared.PageRequest) ([]*model.Professor, int, error)
}
