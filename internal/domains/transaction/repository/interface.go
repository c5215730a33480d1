package repository

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/transaction/model"
	"library-backend/internal/shared"
)

// Repository is the transaction ledger store. Status moves only through
// UpdateStatus, Issue and Return; each compares against the expected
// current status so concurrent transitions resolve to exactly one winner.
type Repository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)

	// HasOpenRequest reports whether the member already holds a PENDING
	// or ISSUED transaction for the book.
	HasOpenRequest(ctx context.Context, memberID, bookID uuid.UUID) (bool, error)

	// UpdateStatus moves the row from `from` to `to` with a conditional
	// update. Returns model.ErrInvalidTransition when the row exists but
	// is no longer in `from`.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.Status) error

	// Issue atomically moves PENDING to ISSUED, stamps issue and due
	// times, and reserves a copy of the book. Either all three happen
	// or none do.
	Issue(ctx context.Context, id uuid.UUID, issuedAt, dueAt time.Time) (*model.Transaction, error)

	// Return atomically moves ISSUED to RETURNED, stamps the return
	// time, and releases the copy back to the shelf.
	Return(ctx context.Context, id uuid.UUID, returnedAt time.Time) (*model.Transaction, error)

	List(ctx context.Context, filter model.ListFilter, page shared.PageRequest) ([]*model.Detail, int, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, page shared.PageRequest) ([]*model.Detail, int, error)

	// DueOn yields transactions issued and due on the given calendar
	// day. The sequence queries lazily on each traversal, so a caller
	// can range over it more than once and see current rows.
	DueOn(ctx context.Context, day time.Time) iter.Seq2[*model.Detail, error]
}
