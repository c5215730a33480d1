package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/shared"
)

// postgresRepository implements Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL member repository
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const memberColumns = `
	id, full_name, email, password_hash, role, credit, image_url, created_at, updated_at
`

func scanMember(row pgx.Row) (*model.Member, error) {
	var m model.Member
	err := row.Scan(
		&m.ID,
		&m.FullName,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.Credit,
		&m.ImageURL,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresRepository) Create(ctx context.Context, member *model.Member) error {
	query := `
		INSERT INTO members (
			id, full_name, email, password_hash, role, credit, image_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		member.ID,
		member.FullName,
		member.Email,
		member.PasswordHash,
		member.Role,
		member.Credit,
		member.ImageURL,
		member.CreatedAt,
		member.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to insert member: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	member, err := scanMember(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`

	member, err := scanMember(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}

	return member, nil
}

func (r *postgresRepository) Update(ctx context.Context, member *model.Member) error {
	query := `
		UPDATE members SET
			full_name = $2, credit = $3, image_url = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, member.ID, member.FullName, member.Credit, member.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMemberNotFound
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context, page shared.PageRequest) ([]*model.Member, int, error) {
	page = page.Normalize()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := `SELECT ` + memberColumns + ` FROM members ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*model.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read members: %w", err)
	}

	return members, total, nil
}
