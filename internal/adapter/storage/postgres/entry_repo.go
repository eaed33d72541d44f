package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const entryColumns = `id, profile_id, kind, name, icon, category, amount, entry_date, created_at, updated_at`

// EntryRepo implements ports.EntryRepository.
type EntryRepo struct {
	pool Pool
}

// NewEntryRepo creates a new EntryRepo.
func NewEntryRepo(pool Pool) *EntryRepo {
	return &EntryRepo{pool: pool}
}

// Create inserts a new entry into the database.
func (r *EntryRepo) Create(ctx context.Context, e *domain.Entry) error {
	query := `INSERT INTO entries (id, profile_id, kind, name, icon, category, amount, entry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.ProfileID, e.Kind, e.Name, e.Icon,
		e.Category, e.Amount, e.Date, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// GetByID fetches an entry by its UUID.
func (r *EntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	e := &domain.Entry{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.ProfileID, &e.Kind, &e.Name, &e.Icon,
		&e.Category, &e.Amount, &e.Date, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry by id: %w", err)
	}
	return e, nil
}

// Delete removes an entry.
func (r *EntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry not found: %s", id)
	}
	return nil
}

// ListRecent returns the newest entries of a kind, value-date descending
// with creation time as tiebreaker.
func (r *EntryRepo) ListRecent(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind, limit int) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE profile_id = $1 AND kind = $2
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, profileID, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}
	return collectEntries(rows)
}

// ListByKind returns all of a profile's entries of one kind, newest first.
func (r *EntryRepo) ListByKind(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE profile_id = $1 AND kind = $2
		ORDER BY entry_date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, profileID, kind)
	if err != nil {
		return nil, fmt.Errorf("list entries by kind: %w", err)
	}
	return collectEntries(rows)
}

// ListOnDate returns a profile's entries of one kind whose value date
// falls on the given calendar day.
func (r *EntryRepo) ListOnDate(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind, date time.Time) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE profile_id = $1 AND kind = $2 AND entry_date::date = $3::date
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, profileID, kind, date)
	if err != nil {
		return nil, fmt.Errorf("list entries on date: %w", err)
	}
	return collectEntries(rows)
}

// SumByKind returns the total amount over a profile's entries of one
// kind, zero when there are none.
func (r *EntryRepo) SumByKind(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM entries WHERE profile_id = $1 AND kind = $2`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, profileID, kind).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum entries: %w", err)
	}
	return total, nil
}

// Filter returns entries matching the date range, keyword and sort
// criteria. Sort fields are mapped to fixed column names, never
// interpolated from user input.
func (r *EntryRepo) Filter(ctx context.Context, params ports.EntryListParams) ([]domain.Entry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM entries WHERE profile_id = $1 AND kind = $2`)
	args := []any{params.ProfileID, params.Kind}

	if params.From != nil {
		args = append(args, *params.From)
		fmt.Fprintf(&sb, ` AND entry_date >= $%d`, len(args))
	}
	if params.To != nil {
		args = append(args, *params.To)
		fmt.Fprintf(&sb, ` AND entry_date <= $%d`, len(args))
	}
	if params.Keyword != "" {
		args = append(args, "%"+params.Keyword+"%")
		fmt.Fprintf(&sb, ` AND name ILIKE $%d`, len(args))
	}

	column := "entry_date"
	if params.SortField == "amount" {
		column = "amount"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, ` ORDER BY %s %s, created_at DESC`, column, direction)

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("filter entries: %w", err)
	}
	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]domain.Entry, error) {
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(
			&e.ID, &e.ProfileID, &e.Kind, &e.Name, &e.Icon,
			&e.Category, &e.Amount, &e.Date, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
