package service

import (
	"context"
	"fmt"
	"sort"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const recentEntryLimit = 5

// DashboardServiceImpl implements ports.DashboardService. It is a pure
// read-side aggregation over wallets and entries.
type DashboardServiceImpl struct {
	walletRepo ports.WalletRepository
	entryRepo  ports.EntryRepository
	log        zerolog.Logger
}

// NewDashboardService creates a new DashboardServiceImpl.
func NewDashboardService(walletRepo ports.WalletRepository, entryRepo ports.EntryRepository, log zerolog.Logger) *DashboardServiceImpl {
	return &DashboardServiceImpl{walletRepo: walletRepo, entryRepo: entryRepo, log: log}
}

// GetDashboard assembles the caller's financial overview.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, profileID uuid.UUID) (*ports.Dashboard, error) {
	totalIncome, err := s.entryRepo.SumByKind(ctx, profileID, domain.EntryKindIncome)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum income: %w", err))
	}
	totalExpense, err := s.entryRepo.SumByKind(ctx, profileID, domain.EntryKindExpense)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum expense: %w", err))
	}

	wallets, err := s.walletRepo.ListByProfile(ctx, profileID, true)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	walletTotal, err := s.walletRepo.SumActiveBalances(ctx, profileID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum wallet balances: %w", err))
	}

	recentIncomes, err := s.entryRepo.ListRecent(ctx, profileID, domain.EntryKindIncome, recentEntryLimit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("recent incomes: %w", err))
	}
	recentExpenses, err := s.entryRepo.ListRecent(ctx, profileID, domain.EntryKindExpense, recentEntryLimit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("recent expenses: %w", err))
	}

	return &ports.Dashboard{
		TotalBalance:       totalIncome.Sub(totalExpense),
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Wallets:            wallets,
		TotalWalletBalance: walletTotal,
		Recent5Incomes:     recentIncomes,
		Recent5Expenses:    recentExpenses,
		RecentTransactions: mergeRecent(recentIncomes, recentExpenses),
	}, nil
}

// mergeRecent interleaves the two recent lists into one feed ordered by
// value date descending, creation time as tiebreaker.
func mergeRecent(incomes, expenses []domain.Entry) []ports.RecentTransaction {
	merged := make([]ports.RecentTransaction, 0, len(incomes)+len(expenses))
	for _, e := range incomes {
		merged = append(merged, toRecentTransaction(e, "income"))
	}
	for _, e := range expenses {
		merged = append(merged, toRecentTransaction(e, "expense"))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.After(merged[j].Date)
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return merged
}

func toRecentTransaction(e domain.Entry, txType string) ports.RecentTransaction {
	return ports.RecentTransaction{
		ID:        e.ID,
		ProfileID: e.ProfileID,
		Icon:      e.Icon,
		Name:      e.Name,
		Amount:    e.Amount,
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
		Type:      txType,
	}
}
