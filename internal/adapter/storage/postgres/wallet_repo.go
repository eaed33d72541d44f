package postgres

import (
	"context"
	"errors"
	"fmt"

	"equitrack-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const walletColumns = `id, profile_id, wallet_type, currency, balance, is_active, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, profile_id, wallet_type, currency, balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.ProfileID, w.WalletType, w.Currency,
		w.Balance, w.IsActive, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return scanWallet(r.pool.QueryRow(ctx, query, id), "get wallet by id")
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	return scanWallet(tx.QueryRow(ctx, query, id), "get wallet for update")
}

// GetByProfileAndType fetches a profile's wallet of a given type.
func (r *WalletRepo) GetByProfileAndType(ctx context.Context, profileID uuid.UUID, walletType string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE profile_id = $1 AND wallet_type = $2`
	return scanWallet(r.pool.QueryRow(ctx, query, profileID, walletType), "get wallet by profile and type")
}

// ListByProfile returns a profile's wallets, optionally only active ones.
func (r *WalletRepo) ListByProfile(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE profile_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(
			&w.ID, &w.ProfileID, &w.WalletType, &w.Currency,
			&w.Balance, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// SumActiveBalances returns the total balance over a profile's active
// wallets, zero when there are none.
func (r *WalletRepo) SumActiveBalances(ctx context.Context, profileID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM wallets WHERE profile_id = $1 AND is_active = TRUE`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, profileID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum active balances: %w", err)
	}
	return total, nil
}

// UpdateBalance sets a wallet's balance within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// SetActive flips a wallet's active flag.
func (r *WalletRepo) SetActive(ctx context.Context, walletID uuid.UUID, active bool) error {
	query := `UPDATE wallets SET is_active = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, active, walletID)
	if err != nil {
		return fmt.Errorf("set wallet active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// Update persists a wallet's mutable metadata (type and currency).
func (r *WalletRepo) Update(ctx context.Context, w *domain.Wallet) error {
	query := `UPDATE wallets SET wallet_type = $1, currency = $2, updated_at = $3 WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, w.WalletType, w.Currency, w.UpdatedAt, w.ID)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", w.ID)
	}
	return nil
}

// Delete removes a wallet row within a transaction.
func (r *WalletRepo) Delete(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, walletID)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

func scanWallet(row pgx.Row, op string) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.ProfileID, &w.WalletType, &w.Currency,
		&w.Balance, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}
