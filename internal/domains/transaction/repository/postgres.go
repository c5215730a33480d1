package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	bookrepo "library-backend/internal/domains/book/repository"
	"library-backend/internal/domains/transaction/model"
	"library-backend/internal/shared"
	"library-backend/pkg/database"
)

// postgresRepository implements Repository
type postgresRepository struct {
	pool  *pgxpool.Pool
	books bookrepo.Repository
}

// NewPostgresRepository creates a new PostgreSQL transaction repository.
// The book repository joins the compound Issue/Return transactions for
// the copy-count side of those transitions.
func NewPostgresRepository(pool *pgxpool.Pool, books bookrepo.Repository) Repository {
	return &postgresRepository{pool: pool, books: books}
}

const txnColumns = `
	id, member_id, book_id, status, requested_at,
	issued_at, due_at, returned_at, created_at, updated_at
`

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var t model.Transaction
	err := row.Scan(
		&t.ID,
		&t.MemberID,
		&t.BookID,
		&t.Status,
		&t.RequestedAt,
		&t.IssuedAt,
		&t.DueAt,
		&t.ReturnedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const detailColumns = `
	t.id, t.member_id, t.book_id, t.status, t.requested_at,
	t.issued_at, t.due_at, t.returned_at, t.created_at, t.updated_at,
	b.title, b.author, b.cover_url, m.full_name, m.email
`

const detailJoins = `
	FROM transactions t
	JOIN books b ON b.id = t.book_id
	JOIN members m ON m.id = t.member_id
`

func scanDetail(row pgx.Row) (*model.Detail, error) {
	var d model.Detail
	err := row.Scan(
		&d.ID,
		&d.MemberID,
		&d.BookID,
		&d.Status,
		&d.RequestedAt,
		&d.IssuedAt,
		&d.DueAt,
		&d.ReturnedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.BookTitle,
		&d.BookAuthor,
		&d.BookCoverURL,
		&d.MemberName,
		&d.MemberEmail,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *postgresRepository) Create(ctx context.Context, txn *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, member_id, book_id, status, requested_at,
			issued_at, due_at, returned_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		txn.ID,
		txn.MemberID,
		txn.BookID,
		txn.Status,
		txn.RequestedAt,
		txn.IssuedAt,
		txn.DueAt,
		txn.ReturnedAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrDuplicateRequest
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

func (r *postgresRepository) HasOpenRequest(ctx context.Context, memberID, bookID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE member_id = $1 AND book_id = $2 AND status IN ($3, $4)
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, memberID, bookID, model.StatusPending, model.StatusIssued).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check open request: %w", err)
	}

	return exists, nil
}

// UpdateStatus is the compare-and-set at the heart of the ledger: the
// WHERE clause carries the expected current status, so two racing
// transitions resolve at the database - the loser affects zero rows.
func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.Status) error {
	return r.updateStatus(ctx, r.pool, id, from, to)
}

func (r *postgresRepository) updateStatus(ctx context.Context, db bookrepo.DB, id uuid.UUID, from, to model.Status) error {
	query := `
		UPDATE transactions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	tag, err := db.Exec(ctx, query, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.missOrStale(ctx, db, id)
	}

	return nil
}

// missOrStale distinguishes a missing row from a lost CAS race
func (r *postgresRepository) missOrStale(ctx context.Context, db bookrepo.DB, id uuid.UUID) error {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check transaction existence: %w", err)
	}
	if !exists {
		return model.ErrTransactionNotFound
	}
	return model.ErrInvalidTransition
}

// Issue performs the compound approval mutation. The status CAS and the
// copy reservation share one database transaction; a race on either side
// rolls the whole thing back.
func (r *postgresRepository) Issue(ctx context.Context, id uuid.UUID, issuedAt, dueAt time.Time) (*model.Transaction, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Transaction, error) {
		query := `
			UPDATE transactions
			SET status = $3, issued_at = $4, due_at = $5, updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING ` + txnColumns

		txn, err := scanTransaction(tx.QueryRow(ctx, query,
			id, model.StatusPending, model.StatusIssued, issuedAt, dueAt))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, r.missOrStale(ctx, tx, id)
			}
			return nil, fmt.Errorf("failed to issue transaction: %w", err)
		}

		if err := r.books.ReserveCopy(ctx, tx, txn.BookID); err != nil {
			return nil, err
		}

		return txn, nil
	})
}

// Return performs the compound return mutation, the mirror of Issue
func (r *postgresRepository) Return(ctx context.Context, id uuid.UUID, returnedAt time.Time) (*model.Transaction, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Transaction, error) {
		query := `
			UPDATE transactions
			SET status = $3, returned_at = $4, updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING ` + txnColumns

		txn, err := scanTransaction(tx.QueryRow(ctx, query,
			id, model.StatusIssued, model.StatusReturned, returnedAt))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, r.missOrStale(ctx, tx, id)
			}
			return nil, fmt.Errorf("failed to return transaction: %w", err)
		}

		if err := r.books.ReleaseCopy(ctx, tx, txn.BookID); err != nil {
			return nil, err
		}

		return txn, nil
	})
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter, page shared.PageRequest) ([]*model.Detail, int, error) {
	page = page.Normalize()

	where := ` WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.Status != "" {
		where += fmt.Sprintf(` AND t.status = $%d`, argPos)
		args = append(args, filter.Status)
		argPos++
	}
	if filter.MemberID != nil {
		where += fmt.Sprintf(` AND t.member_id = $%d`, argPos)
		args = append(args, *filter.MemberID)
		argPos++
	}

	var total int
	countQuery := `SELECT COUNT(*)` + detailJoins + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + detailColumns + detailJoins + where +
		fmt.Sprintf(` ORDER BY t.requested_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var details []*model.Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read transactions: %w", err)
	}

	return details, total, nil
}

func (r *postgresRepository) ListByMember(ctx context.Context, memberID uuid.UUID, page shared.PageRequest) ([]*model.Detail, int, error) {
	return r.List(ctx, model.ListFilter{MemberID: &memberID}, page)
}

// DueOn re-queries per traversal rather than caching rows, so the
// sequence survives being ranged over twice and always reflects the
// ledger at traversal time.
func (r *postgresRepository) DueOn(ctx context.Context, day time.Time) iter.Seq2[*model.Detail, error] {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE t.status = $1 AND t.due_at >= $2 AND t.due_at < $3
		ORDER BY t.due_at, t.id
	`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	return func(yield func(*model.Detail, error) bool) {
		rows, err := r.pool.Query(ctx, query, model.StatusIssued, dayStart, dayEnd)
		if err != nil {
			yield(nil, fmt.Errorf("failed to query due transactions: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanDetail(rows)
			if err != nil {
				yield(nil, fmt.Errorf("failed to scan due transaction: %w", err))
				return
			}
			if !yield(d, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("failed to read due transactions: %w", err))
		}
	}
}
