package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/wishlist/model"
	"library-backend/internal/shared"
)

// postgresRepository implements Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL wishlist repository
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Add(ctx context.Context, item *model.Item) error {
	query := `
		INSERT INTO wishlist_items (id, member_id, book_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, item.ID, item.MemberID, item.BookID, item.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation on (member_id, book_id)
				return model.ErrAlreadyInWishlist
			case "23503": // foreign_key_violation
				return bookmodel.ErrBookNotFound
			}
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

func (r *postgresRepository) Remove(ctx context.Context, memberID, bookID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE member_id = $1 AND book_id = $2`, memberID, bookID)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotInWishlist
	}

	return nil
}

func (r *postgresRepository) Has(ctx context.Context, memberID, bookID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlist_items WHERE member_id = $1 AND book_id = $2)`,
		memberID, bookID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist item: %w", err)
	}

	return exists, nil
}

func (r *postgresRepository) ListByMember(ctx context.Context, memberID uuid.UUID, page shared.PageRequest) ([]*model.Detail, int, error) {
	page = page.Normalize()

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM wishlist_items WHERE member_id = $1`, memberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count wishlist items: %w", err)
	}

	query := `
		SELECT
			w.id, w.member_id, w.book_id, w.created_at,
			b.title, b.author, b.genre, b.cover_url, b.available_copies > 0
		FROM wishlist_items w
		JOIN books b ON b.id = w.book_id
		WHERE w.member_id = $1
		ORDER BY w.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, memberID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wishlist items: %w", err)
	}
	defer rows.Close()

	var details []*model.Detail
	for rows.Next() {
		var d model.Detail
		err := rows.Scan(
			&d.ID,
			&d.MemberID,
			&d.BookID,
			&d.CreatedAt,
			&d.BookTitle,
			&d.BookAuthor,
			&d.BookGenre,
			&d.BookCoverURL,
			&d.BookAvailable,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read wishlist items: %w", err)
	}

	return details, total, nil
}
