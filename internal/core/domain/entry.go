package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind distinguishes income from expense entries.
type EntryKind string

const (
	EntryKindIncome  EntryKind = "INCOME"
	EntryKindExpense EntryKind = "EXPENSE"
)

// Valid reports whether the kind is one of the known values.
func (k EntryKind) Valid() bool {
	return k == EntryKindIncome || k == EntryKindExpense
}

// Entry is a single income or expense record owned by a profile.
// Date is the value date chosen by the user; CreatedAt breaks ties
// when entries share a date.
type Entry struct {
	ID        uuid.UUID       `json:"id"`
	ProfileID uuid.UUID       `json:"profile_id"`
	Kind      EntryKind       `json:"kind"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon,omitempty"`
	Category  *string         `json:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
