package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared"
)

// postgresRepository implements Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL book repository
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const bookColumns = `
	id, isbn, title, author, publisher, genre, price, pages,
	total_copies, available_copies, rating, cover_url, created_at, updated_at
`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.ISBN,
		&b.Title,
		&b.Author,
		&b.Publisher,
		&b.Genre,
		&b.Price,
		&b.Pages,
		&b.TotalCopies,
		&b.AvailableCopies,
		&b.Rating,
		&b.CoverURL,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (
			id, isbn, title, author, publisher, genre, price, pages,
			total_copies, available_copies, rating, cover_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID,
		book.ISBN,
		book.Title,
		book.Author,
		book.Publisher,
		book.Genre,
		book.Price,
		book.Pages,
		book.TotalCopies,
		book.AvailableCopies,
		book.Rating,
		book.CoverURL,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrISBNAlreadyExists
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

func (r *postgresRepository) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`

	book, err := scanBook(r.pool.QueryRow(ctx, query, isbn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by isbn: %w", err)
	}

	return book, nil
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books SET
			title = $2, author = $3, publisher = $4, genre = $5,
			price = $6, pages = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Publisher,
		book.Genre,
		book.Price,
		book.Pages,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return model.ErrBookHasActiveLoan
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListBooksFilter, page shared.PageRequest) ([]*model.Book, int, error) {
	page = page.Normalize()

	where := ` WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.Search != "" {
		where += fmt.Sprintf(` AND (title ILIKE $%d OR author ILIKE $%d OR isbn = $%d)`, argPos, argPos, argPos+1)
		args = append(args, "%"+filter.Search+"%", filter.Search)
		argPos += 2
	}
	if filter.Genre != "" {
		where += fmt.Sprintf(` AND genre = $%d`, argPos)
		args = append(args, filter.Genre)
		argPos++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM books` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := `SELECT ` + bookColumns + ` FROM books` + where +
		fmt.Sprintf(` ORDER BY title LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read books: %w", err)
	}

	return books, total, nil
}

// ReserveCopy decrements the available count with a conditional update.
// Zero rows affected means either the book is gone or the count is at
// zero; concurrent reservations for the last copy resolve here - one
// update wins, the other observes zero rows.
func (r *postgresRepository) ReserveCopy(ctx context.Context, db DB, id uuid.UUID) error {
	query := `
		UPDATE books
		SET available_copies = available_copies - 1, updated_at = NOW()
		WHERE id = $1 AND available_copies > 0
	`

	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to reserve copy: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.boundaryError(ctx, db, id, model.ErrNoCopiesAvailable)
	}

	return nil
}

// ReleaseCopy increments the available count, bounded by the total
func (r *postgresRepository) ReleaseCopy(ctx context.Context, db DB, id uuid.UUID) error {
	query := `
		UPDATE books
		SET available_copies = available_copies + 1, updated_at = NOW()
		WHERE id = $1 AND available_copies < total_copies
	`

	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to release copy: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.boundaryError(ctx, db, id, model.ErrAllCopiesOnShelf)
	}

	return nil
}

// boundaryError distinguishes a missing book from a copy-count bound hit
func (r *postgresRepository) boundaryError(ctx context.Context, db DB, id uuid.UUID, boundErr error) error {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check book existence: %w", err)
	}
	if !exists {
		return model.ErrBookNotFound
	}
	return boundErr
}

func (r *postgresRepository) UpdateRating(ctx context.Context, id uuid.UUID, mean float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET rating = $2, updated_at = NOW() WHERE id = $1`, id, mean)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateCoverURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET cover_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("failed to update cover url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
