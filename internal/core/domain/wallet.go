package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is assigned to newly created wallets.
const DefaultCurrency = "PHP"

// Wallet is a named monetary container owned by exactly one profile.
// Balance is a fixed-point decimal and never goes negative.
type Wallet struct {
	ID         uuid.UUID       `json:"id"`
	ProfileID  uuid.UUID       `json:"profile_id"`
	WalletType string          `json:"wallet_type"` // Unique per profile
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CanWithdraw reports whether the wallet holds at least amount.
func (w *Wallet) CanWithdraw(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
