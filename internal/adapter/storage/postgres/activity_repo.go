package postgres

import (
	"context"
	"fmt"

	"equitrack-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ActivityRepo implements ports.ActivityRepository. The activity log is
// append-only outside of wallet deletion.
type ActivityRepo struct {
	pool Pool
}

// NewActivityRepo creates a new ActivityRepo.
func NewActivityRepo(pool Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

// Create inserts an activity row within a transaction, so the log entry
// commits or rolls back together with the balance change it records.
func (r *ActivityRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.WalletActivity) error {
	query := `INSERT INTO wallet_activities (id, wallet_id, profile_id, amount, activity_type, related_wallet_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		a.ID, a.WalletID, a.ProfileID, a.Amount,
		a.Type, a.RelatedWalletID, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListByWallet returns a wallet's activity log, newest first.
func (r *ActivityRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletActivity, error) {
	query := `SELECT id, wallet_id, profile_id, amount, activity_type, related_wallet_id, created_at
		FROM wallet_activities WHERE wallet_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.WalletActivity
	for rows.Next() {
		var a domain.WalletActivity
		if err := rows.Scan(
			&a.ID, &a.WalletID, &a.ProfileID, &a.Amount,
			&a.Type, &a.RelatedWalletID, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// DeleteByWallet removes a wallet's activity log within a transaction.
// Only used as the first step of a wallet delete.
func (r *ActivityRepo) DeleteByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM wallet_activities WHERE wallet_id = $1`, walletID); err != nil {
		return fmt.Errorf("delete activities: %w", err)
	}
	return nil
}
