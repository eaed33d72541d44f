package postgres

import (
	"context"
	"testing"
	"time"

	"equitrack-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(profileID uuid.UUID) *domain.Wallet {
	return &domain.Wallet{
		ID:         uuid.New(),
		ProfileID:  profileID,
		WalletType: "savings",
		Currency:   "PHP",
		Balance:    decimal.NewFromInt(100),
		IsActive:   true,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func walletTestColumns() []string {
	return []string{"id", "profile_id", "wallet_type", "currency", "balance", "is_active", "created_at", "updated_at"}
}

func walletRow(w *domain.Wallet) *pgxmock.Rows {
	return pgxmock.NewRows(walletTestColumns()).AddRow(
		w.ID, w.ProfileID, w.WalletType, w.Currency,
		w.Balance, w.IsActive, w.CreatedAt, w.UpdatedAt,
	)
}

func TestWalletRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(w.ID, w.ProfileID, w.WalletType, w.Currency,
			w.Balance, w.IsActive, w.CreatedAt, w.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))

	result, err := repo.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.True(t, result.Balance.Equal(w.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(walletTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result, "missing wallet should return nil, not error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id = \\$1 FOR UPDATE").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))

	result, err := repo.GetByIDForUpdate(context.Background(), tx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByProfileAndType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE profile_id = \\$1 AND wallet_type = \\$2").
		WithArgs(w.ProfileID, w.WalletType).
		WillReturnRows(walletRow(w))

	result, err := repo.GetByProfileAndType(context.Background(), w.ProfileID, w.WalletType)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "savings", result.WalletType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_ListByProfile_ActiveOnly(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	profileID := uuid.New()
	w := newTestWallet(profileID)

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE profile_id = \\$1 AND is_active = TRUE").
		WithArgs(profileID).
		WillReturnRows(walletRow(w))

	wallets, err := repo.ListByProfile(context.Background(), profileID, true)
	require.NoError(t, err)
	assert.Len(t, wallets, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_SumActiveBalances(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	profileID := uuid.New()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(balance\\), 0\\) FROM wallets").
		WithArgs(profileID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.NewFromInt(250)))

	total, err := repo.SumActiveBalances(context.Background(), profileID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(250)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()
	newBalance := decimal.NewFromInt(60)

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(newBalance, walletID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateBalance(context.Background(), tx, walletID, newBalance)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateBalance_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(decimal.NewFromInt(10), walletID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateBalance(context.Background(), tx, walletID, decimal.NewFromInt(10))
	assert.Error(t, err)
}

func TestWalletRepo_SetActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()

	mock.ExpectExec("UPDATE wallets SET is_active").
		WithArgs(false, walletID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.SetActive(context.Background(), walletID, false)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	mock.ExpectExec("DELETE FROM wallets WHERE id").
		WithArgs(walletID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), tx, walletID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
