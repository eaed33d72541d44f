package service

import (
	"context"
	"fmt"
	"strings"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReportServiceImpl implements ports.ReportService.
type ReportServiceImpl struct {
	entryRepo   ports.EntryRepository
	profileRepo ports.ProfileRepository
	renderer    ports.SpreadsheetRenderer
	mailer      ports.EmailSender
	log         zerolog.Logger
}

// NewReportService creates a new ReportServiceImpl.
func NewReportService(
	entryRepo ports.EntryRepository,
	profileRepo ports.ProfileRepository,
	renderer ports.SpreadsheetRenderer,
	mailer ports.EmailSender,
	log zerolog.Logger,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		entryRepo:   entryRepo,
		profileRepo: profileRepo,
		renderer:    renderer,
		mailer:      mailer,
		log:         log,
	}
}

// ExportEntries renders the caller's entries of one kind into a
// downloadable spreadsheet, returning the document and its filename.
func (s *ReportServiceImpl) ExportEntries(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) ([]byte, string, error) {
	if !kind.Valid() {
		return nil, "", apperror.Validation("kind must be INCOME or EXPENSE")
	}

	entries, err := s.entryRepo.ListByKind(ctx, profileID, kind)
	if err != nil {
		return nil, "", apperror.InternalError(fmt.Errorf("list entries: %w", err))
	}

	title := "Income Details"
	if kind == domain.EntryKindExpense {
		title = "Expense Details"
	}
	doc, err := s.renderer.Render(title, toReportRows(entries))
	if err != nil {
		return nil, "", apperror.InternalError(fmt.Errorf("render report: %w", err))
	}

	filename := strings.ToLower(string(kind)) + "_details.csv"
	return doc, filename, nil
}

// EmailEntries renders the same report and mails it to the caller as an
// attachment.
func (s *ReportServiceImpl) EmailEntries(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find profile: %w", err))
	}
	if profile == nil {
		return apperror.ErrNotFound("profile")
	}

	doc, filename, err := s.ExportEntries(ctx, profileID, kind)
	if err != nil {
		return err
	}

	kindWord := strings.ToLower(string(kind))
	subject := fmt.Sprintf("Your %s report", kindWord)
	body := fmt.Sprintf(
		"Hi %s,\n\nAttached is the %s report you requested.\n",
		profile.FullName, kindWord,
	)
	if err := s.mailer.SendWithAttachment(ctx, profile.Email, subject, body, filename, doc); err != nil {
		return apperror.InternalError(fmt.Errorf("send report email: %w", err))
	}

	s.log.Info().
		Str("profile_id", profileID.String()).
		Str("kind", kindWord).
		Msg("report emailed")

	return nil
}

func toReportRows(entries []domain.Entry) []ports.ReportRow {
	rows := make([]ports.ReportRow, 0, len(entries))
	for _, e := range entries {
		category := ""
		if e.Category != nil {
			category = *e.Category
		}
		rows = append(rows, ports.ReportRow{
			Name:     e.Name,
			Amount:   e.Amount,
			Date:     e.Date,
			Category: category,
		})
	}
	return rows
}
