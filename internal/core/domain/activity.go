package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActivityType represents the kind of balance-affecting event.
type ActivityType string

const (
	ActivityTypeDeposit     ActivityType = "DEPOSIT"
	ActivityTypeWithdraw    ActivityType = "WITHDRAW"
	ActivityTypeTransferOut ActivityType = "TRANSFER_OUT"
	ActivityTypeTransferIn  ActivityType = "TRANSFER_IN"
)

// WalletActivity is an immutable audit record of one balance change.
// Amount is signed: positive for inflows, negative for outflows.
// RelatedWalletID is set only on transfer legs and points at the
// opposite wallet.
type WalletActivity struct {
	ID              uuid.UUID       `json:"id"`
	WalletID        uuid.UUID       `json:"wallet_id"`
	ProfileID       uuid.UUID       `json:"profile_id"` // Denormalized for per-profile queries
	Amount          decimal.Decimal `json:"amount"`
	Type            ActivityType    `json:"type"`
	RelatedWalletID *uuid.UUID      `json:"related_wallet_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsInflow reports whether the activity increased the wallet balance.
func (a *WalletActivity) IsInflow() bool {
	return a.Type == ActivityTypeDeposit || a.Type == ActivityTypeTransferIn
}
