package ports

import (
	"context"
	"time"

	"equitrack-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetByActivationToken(ctx context.Context, token string) (*domain.Profile, error)
	// Activate marks the profile active and clears its activation token.
	Activate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Profile, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	GetByProfileAndType(ctx context.Context, profileID uuid.UUID, walletType string) (*domain.Wallet, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]domain.Wallet, error)
	// SumActiveBalances returns the total balance over the profile's ACTIVE
	// wallets, zero when there are none.
	SumActiveBalances(ctx context.Context, profileID uuid.UUID) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error
	SetActive(ctx context.Context, walletID uuid.UUID, active bool) error
	Update(ctx context.Context, wallet *domain.Wallet) error
	Delete(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error
}

// ActivityRepository defines persistence for the append-only wallet activity log.
type ActivityRepository interface {
	Create(ctx context.Context, tx pgx.Tx, activity *domain.WalletActivity) error
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletActivity, error)
	// DeleteByWallet removes the log for a wallet; called only as the first
	// step of a wallet delete, inside the same transaction.
	DeleteByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error
}

// EntryListParams holds filter + sort criteria for entry queries.
type EntryListParams struct {
	ProfileID uuid.UUID
	Kind      domain.EntryKind
	From      *time.Time // nil = unbounded
	To        *time.Time // nil = today
	Keyword   string     // substring match on name
	SortField string     // "date" or "amount"
	SortDesc  bool
}

// EntryRepository defines persistence operations for income/expense entries.
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListRecent returns the newest entries of a kind, value-date descending
	// with created-at as tiebreaker.
	ListRecent(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind, limit int) ([]domain.Entry, error)
	ListByKind(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) ([]domain.Entry, error)
	ListOnDate(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind, date time.Time) ([]domain.Entry, error)
	SumByKind(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) (decimal.Decimal, error)
	Filter(ctx context.Context, params EntryListParams) ([]domain.Entry, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
