package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/professor/model"
	"library-backend/internal/shared"
)

// postgresRepository implements Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL professor repository
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const professorColumns = `
	id, full_name, email, department, bio, calendly_url, created_at, updated_at
`

func scanProfessor(row pgx.Row) (*model.Professor, error) {
	var p model.Professor
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.Department,
		&p.Bio,
		&p.CalendlyURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) Create(ctx context.Context, professor *model.Professor) error {
	query := `
		INSERT INTO professors (
			id, full_name, email, department, bio, calendly_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		professor.ID,
		professor.FullName,
		professor.Email,
		professor.Department,
		professor.Bio,
		professor.CalendlyURL,
		professor.CreatedAt,
		professor.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to insert professor: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Professor, error) {
	query := `SELECT ` + professorColumns + ` FROM professors WHERE id = $1`

	professor, err := scanProfessor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfessorNotFound
		}
		return nil, fmt.Errorf("failed to get professor: %w", err)
	}

	return professor, nil
}

func (r *postgresRepository) Update(ctx context.Context, professor *model.Professor) error {
	query := `
		UPDATE professors SET
			full_name = $2, department = $3, bio = $4, calendly_url = $5, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		professor.ID,
		professor.FullName,
		professor.Department,
		professor.Bio,
		professor.CalendlyURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update professor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProfessorNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM professors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete professor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProfessorNotFound
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context, page shared.PageRequest) ([]*model.Professor, int, error) {
	page = page.Normalize()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM professors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count professors: %w", err)
	}

	query := `SELECT ` + professorColumns + ` FROM professors ORDER BY full_name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list professors: %w", err)
	}
	defer rows.Close()

	var professors []*model.Professor
	for rows.Next() {
		professor, err := scanProfessor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan professor: %w", err)
		}
		professors = append(professors, professor)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read professors: %w", err)
	}

	return professors, total, nil
}
