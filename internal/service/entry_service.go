package service

import (
	"context"
	"fmt"
	"time"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EntryServiceImpl implements ports.EntryService.
type EntryServiceImpl struct {
	entryRepo ports.EntryRepository
	log       zerolog.Logger
}

// NewEntryService creates a new EntryServiceImpl.
func NewEntryService(entryRepo ports.EntryRepository, log zerolog.Logger) *EntryServiceImpl {
	return &EntryServiceImpl{entryRepo: entryRepo, log: log}
}

// CreateEntry records a new income or expense entry for the caller.
func (s *EntryServiceImpl) CreateEntry(ctx context.Context, profileID uuid.UUID, req ports.CreateEntryRequest) (*domain.Entry, error) {
	if !req.Kind.Valid() {
		return nil, apperror.Validation("kind must be INCOME or EXPENSE")
	}
	if req.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	now := time.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	entry := &domain.Entry{
		ID:        uuid.New(),
		ProfileID: profileID,
		Kind:      req.Kind,
		Name:      req.Name,
		Icon:      req.Icon,
		Category:  req.Category,
		Amount:    req.Amount,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create entry: %w", err))
	}

	s.log.Info().
		Str("entry_id", entry.ID.String()).
		Str("profile_id", profileID.String()).
		Str("kind", string(entry.Kind)).
		Msg("entry created")

	return entry, nil
}

// ListEntries returns all of the caller's entries of one kind, newest first.
func (s *EntryServiceImpl) ListEntries(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) ([]domain.Entry, error) {
	if !kind.Valid() {
		return nil, apperror.Validation("kind must be INCOME or EXPENSE")
	}

	entries, err := s.entryRepo.ListByKind(ctx, profileID, kind)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list entries: %w", err))
	}
	return entries, nil
}

// DeleteEntry removes an entry owned by the caller.
func (s *EntryServiceImpl) DeleteEntry(ctx context.Context, profileID, entryID uuid.UUID) error {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find entry: %w", err))
	}
	if entry == nil {
		return apperror.ErrNotFound("entry")
	}
	if entry.ProfileID != profileID {
		return apperror.ErrNotOwner("entry")
	}

	if err := s.entryRepo.Delete(ctx, entryID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete entry: %w", err))
	}
	return nil
}

// Filter returns entries matching date range, keyword and sort criteria.
// The end date defaults to now, the start date is unbounded when absent.
func (s *EntryServiceImpl) Filter(ctx context.Context, profileID uuid.UUID, req ports.FilterRequest) ([]domain.Entry, error) {
	if !req.Kind.Valid() {
		return nil, apperror.Validation("kind must be INCOME or EXPENSE")
	}
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, apperror.Validation("start date must not be after end date")
	}

	sortField := req.SortField
	switch sortField {
	case "":
		sortField = "date"
	case "date", "amount":
	default:
		return nil, apperror.Validation("sort field must be date or amount")
	}

	sortDesc := true
	switch req.SortOrder {
	case "", "desc":
	case "asc":
		sortDesc = false
	default:
		return nil, apperror.Validation("sort order must be asc or desc")
	}

	entries, err := s.entryRepo.Filter(ctx, ports.EntryListParams{
		ProfileID: profileID,
		Kind:      req.Kind,
		From:      req.StartDate,
		To:        req.EndDate,
		Keyword:   req.Keyword,
		SortField: sortField,
		SortDesc:  sortDesc,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("filter entries: %w", err))
	}
	return entries, nil
}
