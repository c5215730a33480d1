package service

import (
	"context"
	"iter"

	"github.com/google/uuid"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/transaction/model"
	"library-backend/internal/shared"
)

// Service is the request orchestrator: every lifecycle move enters
// through it, carrying the actor whose authority is being checked.
type Service interface {
	// CreateRequest opens a PENDING transaction for the actor. The book
	// must exist and have a copy available at request time; the copy is
	// only reserved later, at approval.
	CreateRequest(ctx context.Context, actor shared.Actor, req model.CreateRequestRequest) (*model.Transaction, error)

	// Approve moves PENDING to ISSUED, stamps the due date and reserves
	// a copy. Admin only.
	Approve(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error)

	// Reject moves PENDING to REJECTED. Admin only.
	Reject(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error)

	// Cancel moves PENDING to CANCELLED. Owner or admin.
	Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error)

	// Return moves ISSUED to RETURNED and releases the copy. Owner or
	// admin.
	Return(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error)

	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, filter model.ListFilter, page shared.PageRequest) ([]*model.Detail, int, error)
	ListMine(ctx context.Context, actor shared.Actor, page shared.PageRequest) ([]*model.Detail, int, error)

	// DueToday yields the transactions due on the current calendar day.
	// The sequence is restartable; each traversal sees current rows.
	DueToday(ctx context.Context) iter.Seq2[*model.Detail, error]
}

// BookCatalog is the slice of the catalog the orchestrator reads when
// opening a request.
type BookCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error)
}

// ViewInvalidator is the revalidation hook fired after successful mutations
type ViewInvalidator interface {
	Invalidate(ctx context.Context, views ...string)
}
