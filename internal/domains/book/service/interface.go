package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared"
)

// Service is the catalog business logic
type Service interface {
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.ListBooksFilter, page shared.PageRequest) ([]*model.Book, int, error)

	// UploadCover stores the original cover image and queues variant
	// generation; returns the public URL of the original.
	UploadCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) (string, error)
}

// CoverStorage is the slice of object storage the catalog needs
type CoverStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// CoverValidator checks uploaded image bytes before they are stored
type CoverValidator interface {
	ValidateImage(data []byte) error
}

// TaskEnqueuer queues background work (cover variant generation)
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ViewInvalidator is the revalidation hook fired after successful mutations
type ViewInvalidator interface {
	Invalidate(ctx context.Context, views ...string)
}
