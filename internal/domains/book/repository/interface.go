package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared"
)

// DB is the slice of pgx needed by the availability operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx, so a copy-count change can
// join the ledger's transaction and commit (or roll back) with it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the book catalog store
type Repository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.ListBooksFilter, page shared.PageRequest) ([]*model.Book, int, error)

	// ReserveCopy decrements available copies, bounded at zero
	// (model.ErrNoCopiesAvailable). Invoked exactly once per Issue,
	// inside the ledger's transaction - never independently.
	ReserveCopy(ctx context.Context, db DB, id uuid.UUID) error

	// ReleaseCopy increments available copies, bounded at the total
	// (model.ErrAllCopiesOnShelf). Invoked exactly once per Return.
	ReleaseCopy(ctx context.Context, db DB, id uuid.UUID) error

	// UpdateRating writes the aggregated mean rating back to the book
	UpdateRating(ctx context.Context, id uuid.UUID, mean float64) error

	// UpdateCoverURL stores the public URL of the uploaded cover
	UpdateCoverURL(ctx context.Context, id uuid.UUID, url string) error
}
