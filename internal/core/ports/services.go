package ports

import (
	"context"
	"time"

	"equitrack-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(profileID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	ProfileID uuid.UUID
	Email     string
}

// EmailSender delivers outbound mail. Send is fire-and-forget from the
// caller's perspective: failures are logged by callers, never surfaced
// to the end user.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
	SendWithAttachment(ctx context.Context, to, subject, body, filename string, attachment []byte) error
}

// SpreadsheetRenderer turns tabular report rows into a downloadable
// document. Pure function of its input.
type SpreadsheetRenderer interface {
	Render(title string, rows []ReportRow) ([]byte, error)
}

// ReportRow is one line of an exported report.
type ReportRow struct {
	Name     string
	Amount   decimal.Decimal
	Date     time.Time
	Category string
}

// --- Service Ports (Business Logic) ---

// AuthService defines registration, activation and login logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Profile, error)
	Activate(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (string, time.Time, *domain.Profile, error)
	GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error)
}

// RegisterRequest holds validated input for profile registration.
type RegisterRequest struct {
	FullName string
	Email    string
	Password string
}

// WalletService defines the ledger engine: every balance mutation runs
// inside a single database transaction and is ownership-checked against
// the authenticated profile.
type WalletService interface {
	CreateWallet(ctx context.Context, profileID uuid.UUID, walletType string) (*domain.Wallet, error)
	GetWallet(ctx context.Context, profileID, walletID uuid.UUID) (*domain.Wallet, error)
	ListWallets(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]domain.Wallet, error)
	Deposit(ctx context.Context, profileID, walletID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error)
	Withdraw(ctx context.Context, profileID, walletID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error)
	Transfer(ctx context.Context, profileID, fromWalletID, toWalletID uuid.UUID, amount decimal.Decimal) error
	GetTotalBalance(ctx context.Context, profileID uuid.UUID) (decimal.Decimal, error)
	ActivateWallet(ctx context.Context, profileID, walletID uuid.UUID) (*domain.Wallet, error)
	DeactivateWallet(ctx context.Context, profileID, walletID uuid.UUID) (*domain.Wallet, error)
	UpdateWallet(ctx context.Context, profileID, walletID uuid.UUID, update WalletUpdate) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, profileID, walletID uuid.UUID) error
	ListActivities(ctx context.Context, profileID, walletID uuid.UUID) ([]domain.WalletActivity, error)
}

// WalletUpdate holds the partial-update fields for a wallet. Nil means
// leave unchanged.
type WalletUpdate struct {
	Currency   *string
	WalletType *string
}

// EntryService defines income/expense entry management.
type EntryService interface {
	CreateEntry(ctx context.Context, profileID uuid.UUID, req CreateEntryRequest) (*domain.Entry, error)
	ListEntries(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) ([]domain.Entry, error)
	DeleteEntry(ctx context.Context, profileID, entryID uuid.UUID) error
	Filter(ctx context.Context, profileID uuid.UUID, req FilterRequest) ([]domain.Entry, error)
}

// CreateEntryRequest holds validated input for entry creation.
type CreateEntryRequest struct {
	Kind     domain.EntryKind
	Name     string
	Icon     string
	Category *string
	Amount   decimal.Decimal
	Date     time.Time
}

// FilterRequest holds the transaction filter criteria.
type FilterRequest struct {
	Kind      domain.EntryKind
	StartDate *time.Time
	EndDate   *time.Time
	Keyword   string
	SortField string
	SortOrder string
}

// DashboardService is the read-only aggregation layer.
type DashboardService interface {
	GetDashboard(ctx context.Context, profileID uuid.UUID) (*Dashboard, error)
}

// RecentTransaction is one item of the merged income/expense feed.
type RecentTransaction struct {
	ID        uuid.UUID       `json:"id"`
	ProfileID uuid.UUID       `json:"profile_id"`
	Icon      string          `json:"icon,omitempty"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	Type      string          `json:"type"` // "income" or "expense"
}

// Dashboard aggregates the per-profile figures for dashboard consumption.
type Dashboard struct {
	TotalBalance       decimal.Decimal     `json:"total_balance"` // income − expense
	TotalIncome        decimal.Decimal     `json:"total_income"`
	TotalExpense       decimal.Decimal     `json:"total_expense"`
	Wallets            []domain.Wallet     `json:"wallets"` // active only
	TotalWalletBalance decimal.Decimal     `json:"total_wallet_balance"`
	Recent5Incomes     []domain.Entry      `json:"recent_5_incomes"`
	Recent5Expenses    []domain.Entry      `json:"recent_5_expenses"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
}

// ReportService builds and delivers spreadsheet exports.
type ReportService interface {
	ExportEntries(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) ([]byte, string, error)
	EmailEntries(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) error
}

// NotifyService runs the scheduled reminder emails.
type NotifyService interface {
	SendDailyReminders(ctx context.Context) error
	SendDailyExpenseSummaries(ctx context.Context) error
	// Run blocks, firing the daily jobs at their configured times until
	// ctx is cancelled.
	Run(ctx context.Context)
}
