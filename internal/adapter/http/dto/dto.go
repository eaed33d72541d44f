package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest is the request body for profile registration.
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,not_blank,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for profile login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token   string          `json:"token"`
	Expiry  int64           `json:"expiry"` // Unix timestamp
	Profile ProfileResponse `json:"profile"`
}

// ProfileResponse is the public view of a profile.
type ProfileResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	WalletType string `json:"wallet_type" binding:"required,not_blank,max=50"`
}

// UpdateWalletRequest is the request body for a partial wallet update.
// Omitted fields are left unchanged.
type UpdateWalletRequest struct {
	WalletType *string `json:"wallet_type,omitempty" binding:"omitempty,not_blank,max=50"`
	Currency   *string `json:"currency,omitempty" binding:"omitempty,len=3"`
}

// AmountRequest is the request body for deposits and withdrawals.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// TransferRequest is the request body for a wallet-to-wallet transfer.
type TransferRequest struct {
	ToWalletID string          `json:"to_wallet_id" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// WalletResponse is the response body for wallet results.
type WalletResponse struct {
	ID         string          `json:"id"`
	WalletType string          `json:"wallet_type"`
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  string          `json:"created_at"`
}

// TotalBalanceResponse is the response for the aggregate balance query.
type TotalBalanceResponse struct {
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// ActivityResponse is one row of a wallet's activity feed.
type ActivityResponse struct {
	ID              string          `json:"id"`
	WalletID        string          `json:"wallet_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	RelatedWalletID *string         `json:"related_wallet_id,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

// CreateEntryRequest is the request body for income/expense creation.
type CreateEntryRequest struct {
	Name     string          `json:"name" binding:"required,not_blank,max=100"`
	Icon     string          `json:"icon,omitempty" binding:"max=100"`
	Category *string         `json:"category,omitempty" binding:"omitempty,max=50"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Date     *time.Time      `json:"date,omitempty"`
}

// FilterRequest is the request body for the transaction filter.
type FilterRequest struct {
	Type      string     `json:"type" binding:"required,oneof=income expense INCOME EXPENSE"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Keyword   string     `json:"keyword,omitempty" binding:"max=100"`
	SortField string     `json:"sort_field,omitempty" binding:"omitempty,oneof=date amount"`
	SortOrder string     `json:"sort_order,omitempty" binding:"omitempty,oneof=asc desc"`
}

// EntryResponse is the response body for entry results.
type EntryResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon,omitempty"`
	Category  *string         `json:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	CreatedAt string          `json:"created_at"`
}
