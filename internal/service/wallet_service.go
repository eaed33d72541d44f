package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// WalletServiceImpl implements ports.WalletService. Every balance
// mutation runs inside a single database transaction with the affected
// wallet rows locked FOR UPDATE.
type WalletServiceImpl struct {
	walletRepo   ports.WalletRepository
	activityRepo ports.ActivityRepository
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	activityRepo ports.ActivityRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo:   walletRepo,
		activityRepo: activityRepo,
		transactor:   transactor,
		log:          log,
	}
}

// CreateWallet creates a wallet with a zero balance in the default
// currency. Wallet types are unique per profile.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, profileID uuid.UUID, walletType string) (*domain.Wallet, error) {
	if walletType == "" {
		return nil, apperror.Validation("wallet type is required")
	}

	existing, err := s.walletRepo.GetByProfileAndType(ctx, profileID, walletType)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check wallet type: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateWalletType(walletType)
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:         uuid.New(),
		ProfileID:  profileID,
		WalletType: walletType,
		Currency:   domain.DefaultCurrency,
		Balance:    decimal.Zero,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("profile_id", profileID.String()).
		Str("wallet_type", walletType).
		Msg("wallet created")

	return wallet, nil
}

// GetWallet returns a wallet owned by the caller.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, profileID, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if wallet.ProfileID != profileID {
		return nil, apperror.ErrNotOwner("wallet")
	}
	return wallet, nil
}

// ListWallets returns the caller's wallets, optionally only active ones.
func (s *WalletServiceImpl) ListWallets(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.ListByProfile(ctx, profileID, activeOnly)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}

// Deposit adds funds to a wallet and records a DEPOSIT activity.
func (s *WalletServiceImpl) Deposit(ctx context.Context, profileID, walletID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.lockOwnedWallet(ctx, dbTx, profileID, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive {
		return nil, apperror.ErrWalletInactive()
	}

	newBalance := wallet.Balance.Add(amount)
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	activity := &domain.WalletActivity{
		ID:        uuid.New(),
		WalletID:  wallet.ID,
		ProfileID: profileID,
		Amount:    amount,
		Type:      domain.ActivityTypeDeposit,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.activityRepo.Create(ctx, dbTx, activity); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record activity: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("amount", amount.String()).
		Str("new_balance", newBalance.String()).
		Msg("deposit completed")

	wallet.Balance = newBalance
	return wallet, nil
}

// Withdraw removes funds from a wallet and records a WITHDRAW activity
// with a negated amount. The balance can never go below zero.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, profileID, walletID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.lockOwnedWallet(ctx, dbTx, profileID, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive {
		return nil, apperror.ErrWalletInactive()
	}
	if !wallet.CanWithdraw(amount) {
		return nil, apperror.ErrInsufficientBalance(wallet.Balance.StringFixed(2), amount.StringFixed(2))
	}

	newBalance := wallet.Balance.Sub(amount)
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	activity := &domain.WalletActivity{
		ID:        uuid.New(),
		WalletID:  wallet.ID,
		ProfileID: profileID,
		Amount:    amount.Neg(),
		Type:      domain.ActivityTypeWithdraw,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.activityRepo.Create(ctx, dbTx, activity); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record activity: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("amount", amount.String()).
		Str("new_balance", newBalance.String()).
		Msg("withdrawal completed")

	wallet.Balance = newBalance
	return wallet, nil
}

// Transfer atomically moves funds between two wallets owned by the
// caller. Both rows are locked in ascending ID order so concurrent
// opposite transfers cannot deadlock. Exactly two activity rows are
// written, one per side.
func (s *WalletServiceImpl) Transfer(ctx context.Context, profileID, fromWalletID, toWalletID uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}
	if fromWalletID == toWalletID {
		return apperror.ErrSameWalletTransfer()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	first, second := fromWalletID, toWalletID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}

	locked := make(map[uuid.UUID]*domain.Wallet, 2)
	for _, id := range []uuid.UUID{first, second} {
		w, err := s.lockOwnedWallet(ctx, dbTx, profileID, id)
		if err != nil {
			return err
		}
		locked[id] = w
	}
	source, dest := locked[fromWalletID], locked[toWalletID]

	if !source.IsActive || !dest.IsActive {
		return apperror.ErrWalletInactive()
	}
	if !source.CanWithdraw(amount) {
		return apperror.ErrInsufficientBalance(source.Balance.StringFixed(2), amount.StringFixed(2))
	}

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, source.ID, source.Balance.Sub(amount)); err != nil {
		return apperror.InternalError(fmt.Errorf("debit source: %w", err))
	}
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, dest.ID, dest.Balance.Add(amount)); err != nil {
		return apperror.InternalError(fmt.Errorf("credit destination: %w", err))
	}

	now := time.Now().UTC()
	outActivity := &domain.WalletActivity{
		ID:              uuid.New(),
		WalletID:        source.ID,
		ProfileID:       profileID,
		Amount:          amount.Neg(),
		Type:            domain.ActivityTypeTransferOut,
		RelatedWalletID: &dest.ID,
		CreatedAt:       now,
	}
	inActivity := &domain.WalletActivity{
		ID:              uuid.New(),
		WalletID:        dest.ID,
		ProfileID:       profileID,
		Amount:          amount,
		Type:            domain.ActivityTypeTransferIn,
		RelatedWalletID: &source.ID,
		CreatedAt:       now,
	}
	if err := s.activityRepo.Create(ctx, dbTx, outActivity); err != nil {
		return apperror.InternalError(fmt.Errorf("record outbound activity: %w", err))
	}
	if err := s.activityRepo.Create(ctx, dbTx, inActivity); err != nil {
		return apperror.InternalError(fmt.Errorf("record inbound activity: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("from_wallet_id", source.ID.String()).
		Str("to_wallet_id", dest.ID.String()).
		Str("amount", amount.String()).
		Msg("transfer completed")

	return nil
}

// GetTotalBalance returns the sum over the caller's active wallets.
func (s *WalletServiceImpl) GetTotalBalance(ctx context.Context, profileID uuid.UUID) (decimal.Decimal, error) {
	total, err := s.walletRepo.SumActiveBalances(ctx, profileID)
	if err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("sum balances: %w", err))
	}
	return total, nil
}

// ActivateWallet re-enables a deactivated wallet.
func (s *WalletServiceImpl) ActivateWallet(ctx context.Context, profileID, walletID uuid.UUID) (*domain.Wallet, error) {
	return s.setWalletActive(ctx, profileID, walletID, true)
}

// DeactivateWallet disables a wallet. Its balance is preserved but
// excluded from totals, and all movements are rejected until it is
// reactivated.
func (s *WalletServiceImpl) DeactivateWallet(ctx context.Context, profileID, walletID uuid.UUID) (*domain.Wallet, error) {
	return s.setWalletActive(ctx, profileID, walletID, false)
}

func (s *WalletServiceImpl) setWalletActive(ctx context.Context, profileID, walletID uuid.UUID, active bool) (*domain.Wallet, error) {
	wallet, err := s.GetWallet(ctx, profileID, walletID)
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.SetActive(ctx, wallet.ID, active); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("set wallet active: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Bool("active", active).
		Msg("wallet activation changed")

	wallet.IsActive = active
	return wallet, nil
}

// UpdateWallet applies a partial update to a wallet's type or currency.
func (s *WalletServiceImpl) UpdateWallet(ctx context.Context, profileID, walletID uuid.UUID, update ports.WalletUpdate) (*domain.Wallet, error) {
	wallet, err := s.GetWallet(ctx, profileID, walletID)
	if err != nil {
		return nil, err
	}

	if update.WalletType != nil && *update.WalletType != wallet.WalletType {
		if *update.WalletType == "" {
			return nil, apperror.Validation("wallet type is required")
		}
		existing, err := s.walletRepo.GetByProfileAndType(ctx, profileID, *update.WalletType)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("check wallet type: %w", err))
		}
		if existing != nil {
			return nil, apperror.ErrDuplicateWalletType(*update.WalletType)
		}
		wallet.WalletType = *update.WalletType
	}
	if update.Currency != nil && *update.Currency != "" {
		wallet.Currency = *update.Currency
	}

	wallet.UpdatedAt = time.Now().UTC()
	if err := s.walletRepo.Update(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update wallet: %w", err))
	}

	return wallet, nil
}

// DeleteWallet removes a wallet and its activity log in one transaction.
func (s *WalletServiceImpl) DeleteWallet(ctx context.Context, profileID, walletID uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.lockOwnedWallet(ctx, dbTx, profileID, walletID)
	if err != nil {
		return err
	}

	if err := s.activityRepo.DeleteByWallet(ctx, dbTx, wallet.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete activities: %w", err))
	}
	if err := s.walletRepo.Delete(ctx, dbTx, wallet.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("wallet_id", wallet.ID.String()).Msg("wallet deleted")

	return nil
}

// ListActivities returns the activity log of a wallet owned by the caller.
func (s *WalletServiceImpl) ListActivities(ctx context.Context, profileID, walletID uuid.UUID) ([]domain.WalletActivity, error) {
	if _, err := s.GetWallet(ctx, profileID, walletID); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list activities: %w", err))
	}
	return activities, nil
}

// lockOwnedWallet locks a wallet row FOR UPDATE and checks ownership.
func (s *WalletServiceImpl) lockOwnedWallet(ctx context.Context, dbTx pgx.Tx, profileID, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if wallet.ProfileID != profileID {
		return nil, apperror.ErrNotOwner("wallet")
	}
	return wallet, nil
}
