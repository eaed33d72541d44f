package service

import (
	"context"
	"testing"
	"time"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDashboardService_GetDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletRepo := mocks.NewMockWalletRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	svc := NewDashboardService(walletRepo, entryRepo, zerolog.Nop())

	ctx := context.Background()
	profileID := uuid.New()

	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }

	incomes := []domain.Entry{
		{ID: uuid.New(), ProfileID: profileID, Kind: domain.EntryKindIncome, Name: "Salary", Amount: decimal.NewFromInt(50000), Date: day(28)},
	}
	expenses := []domain.Entry{
		{ID: uuid.New(), ProfileID: profileID, Kind: domain.EntryKindExpense, Name: "Rent", Amount: decimal.NewFromInt(12000), Date: day(29)},
		{ID: uuid.New(), ProfileID: profileID, Kind: domain.EntryKindExpense, Name: "Groceries", Amount: decimal.NewFromInt(2500), Date: day(27)},
	}
	wallets := []domain.Wallet{
		{ID: uuid.New(), ProfileID: profileID, WalletType: "savings", Balance: decimal.NewFromInt(30000), IsActive: true},
	}

	entryRepo.EXPECT().SumByKind(ctx, profileID, domain.EntryKindIncome).Return(decimal.NewFromInt(50000), nil)
	entryRepo.EXPECT().SumByKind(ctx, profileID, domain.EntryKindExpense).Return(decimal.NewFromInt(14500), nil)
	walletRepo.EXPECT().ListByProfile(ctx, profileID, true).Return(wallets, nil)
	walletRepo.EXPECT().SumActiveBalances(ctx, profileID).Return(decimal.NewFromInt(30000), nil)
	entryRepo.EXPECT().ListRecent(ctx, profileID, domain.EntryKindIncome, 5).Return(incomes, nil)
	entryRepo.EXPECT().ListRecent(ctx, profileID, domain.EntryKindExpense, 5).Return(expenses, nil)

	dash, err := svc.GetDashboard(ctx, profileID)
	require.NoError(t, err)

	assert.True(t, dash.TotalBalance.Equal(decimal.NewFromInt(35500)), "income minus expense")
	assert.True(t, dash.TotalIncome.Equal(decimal.NewFromInt(50000)))
	assert.True(t, dash.TotalExpense.Equal(decimal.NewFromInt(14500)))
	assert.True(t, dash.TotalWalletBalance.Equal(decimal.NewFromInt(30000)))
	assert.Len(t, dash.Wallets, 1)
	assert.Len(t, dash.Recent5Incomes, 1)
	assert.Len(t, dash.Recent5Expenses, 2)

	// Merged feed ordered by value date descending.
	require.Len(t, dash.RecentTransactions, 3)
	assert.Equal(t, "Rent", dash.RecentTransactions[0].Name)
	assert.Equal(t, "expense", dash.RecentTransactions[0].Type)
	assert.Equal(t, "Salary", dash.RecentTransactions[1].Name)
	assert.Equal(t, "income", dash.RecentTransactions[1].Type)
	assert.Equal(t, "Groceries", dash.RecentTransactions[2].Name)
}

func TestMergeRecent_CreatedAtBreaksTies(t *testing.T) {
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	older := domain.Entry{ID: uuid.New(), Name: "Older", Date: date, CreatedAt: date.Add(1 * time.Hour)}
	newer := domain.Entry{ID: uuid.New(), Name: "Newer", Date: date, CreatedAt: date.Add(2 * time.Hour)}

	merged := mergeRecent([]domain.Entry{older}, []domain.Entry{newer})
	require.Len(t, merged, 2)
	assert.Equal(t, "Newer", merged[0].Name)
	assert.Equal(t, "Older", merged[1].Name)
}

func TestMergeRecent_Empty(t *testing.T) {
	merged := mergeRecent(nil, nil)
	assert.Empty(t, merged)
}
