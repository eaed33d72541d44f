package postgres

import (
	"context"
	"errors"
	"fmt"

	"equitrack-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, full_name, email, password_hash, is_active, activation_token, created_at, updated_at`

// ProfileRepo implements ports.ProfileRepository.
type ProfileRepo struct {
	pool Pool
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(pool Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Create inserts a new profile into the database.
func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (id, full_name, email, password_hash, is_active, activation_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.FullName, p.Email, p.PasswordHash,
		p.IsActive, p.ActivationToken, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID fetches a profile by its UUID.
func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get profile by id")
}

// GetByEmail fetches a profile by email.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email), "get profile by email")
}

// GetByActivationToken fetches a profile by its pending activation token.
func (r *ProfileRepo) GetByActivationToken(ctx context.Context, token string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE activation_token = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, token), "get profile by activation token")
}

// Activate marks the profile active and clears its activation token, so
// the token cannot be replayed.
func (r *ProfileRepo) Activate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE profiles SET is_active = TRUE, activation_token = NULL, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("activate profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// List returns all profiles.
func (r *ProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(
			&p.ID, &p.FullName, &p.Email, &p.PasswordHash,
			&p.IsActive, &p.ActivationToken, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepo) scanOne(row pgx.Row, op string) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.PasswordHash,
		&p.IsActive, &p.ActivationToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
