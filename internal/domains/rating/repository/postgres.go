package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/rating/model"
	"library-backend/internal/shared"
)

// postgresRepository implements Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL rating repository
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	query := `
		INSERT INTO ratings (id, member_id, book_id, score, review, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (member_id, book_id) DO UPDATE
		SET score = EXCLUDED.score, review = EXCLUDED.review, updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		rating.ID,
		rating.MemberID,
		rating.BookID,
		rating.Score,
		rating.Review,
		rating.CreatedAt,
		rating.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return bookmodel.ErrBookNotFound
		}
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByMemberAndBook(ctx context.Context, memberID, bookID uuid.UUID) (*model.Rating, error) {
	query := `
		SELECT id, member_id, book_id, score, review, created_at, updated_at
		FROM ratings
		WHERE member_id = $1 AND book_id = $2
	`

	var rating model.Rating
	err := r.pool.QueryRow(ctx, query, memberID, bookID).Scan(
		&rating.ID,
		&rating.MemberID,
		&rating.BookID,
		&rating.Score,
		&rating.Review,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return &rating, nil
}

func (r *postgresRepository) MeanScore(ctx context.Context, bookID uuid.UUID) (float64, error) {
	var mean float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(score), 0) FROM ratings WHERE book_id = $1`, bookID).Scan(&mean)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate mean score: %w", err)
	}

	return mean, nil
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID uuid.UUID, page shared.PageRequest) ([]*model.Rating, int, error) {
	page = page.Normalize()

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ratings WHERE book_id = $1`, bookID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
	}

	query := `
		SELECT id, member_id, book_id, score, review, created_at, updated_at
		FROM ratings
		WHERE book_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, bookID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*model.Rating
	for rows.Next() {
		var rating model.Rating
		err := rows.Scan(
			&rating.ID,
			&rating.MemberID,
			&rating.BookID,
			&rating.Score,
			&rating.Review,
			&rating.CreatedAt,
			&rating.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, &rating)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read ratings: %w", err)
	}

	return ratings, total, nil
}
