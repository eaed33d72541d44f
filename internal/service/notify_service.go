package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"equitrack-backend/config"
	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// NotifyServiceImpl implements ports.NotifyService. It owns the daily
// email jobs: an entry reminder and an expense summary, each fired once
// a day at its configured local time.
type NotifyServiceImpl struct {
	profileRepo ports.ProfileRepository
	entryRepo   ports.EntryRepository
	mailer      ports.EmailSender
	cfg         config.NotifyConfig
	frontendURL string
	log         zerolog.Logger

	now func() time.Time // injectable clock for tests
}

// NewNotifyService creates a new NotifyServiceImpl.
func NewNotifyService(
	profileRepo ports.ProfileRepository,
	entryRepo ports.EntryRepository,
	mailer ports.EmailSender,
	cfg config.NotifyConfig,
	frontendURL string,
	log zerolog.Logger,
) *NotifyServiceImpl {
	return &NotifyServiceImpl{
		profileRepo: profileRepo,
		entryRepo:   entryRepo,
		mailer:      mailer,
		cfg:         cfg,
		frontendURL: frontendURL,
		log:         log,
		now:         time.Now,
	}
}

// SendDailyReminders emails every active profile a nudge to record the
// day's income and expenses. Per-recipient failures are logged and
// skipped, never aborting the batch.
func (s *NotifyServiceImpl) SendDailyReminders(ctx context.Context) error {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	sent := 0
	for _, p := range profiles {
		if !p.IsActive {
			continue
		}
		body := fmt.Sprintf(
			"Hi %s,\n\nThis is a friendly reminder to add today's income and expenses.\n\n%s\n",
			p.FullName, s.frontendURL,
		)
		if err := s.mailer.Send(ctx, p.Email, "Daily reminder: add your income and expenses", body); err != nil {
			s.log.Warn().Err(err).Str("email", p.Email).Msg("failed to send daily reminder")
			continue
		}
		sent++
	}

	s.log.Info().Int("sent", sent).Msg("daily reminders dispatched")
	return nil
}

// SendDailyExpenseSummaries emails each active profile a summary of the
// expenses recorded today. Profiles with no expenses today get nothing.
func (s *NotifyServiceImpl) SendDailyExpenseSummaries(ctx context.Context) error {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	today := s.now().UTC()
	sent := 0
	for _, p := range profiles {
		if !p.IsActive {
			continue
		}
		expenses, err := s.entryRepo.ListOnDate(ctx, p.ID, domain.EntryKindExpense, today)
		if err != nil {
			s.log.Warn().Err(err).Str("profile_id", p.ID.String()).Msg("failed to load today's expenses")
			continue
		}
		if len(expenses) == 0 {
			continue
		}

		if err := s.mailer.Send(ctx, p.Email, "Your expense summary for today", expenseSummaryBody(p.FullName, expenses)); err != nil {
			s.log.Warn().Err(err).Str("email", p.Email).Msg("failed to send expense summary")
			continue
		}
		sent++
	}

	s.log.Info().Int("sent", sent).Msg("expense summaries dispatched")
	return nil
}

func expenseSummaryBody(fullName string, expenses []domain.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nHere is what you spent today:\n\n", fullName)

	total := decimal.Zero
	for _, e := range expenses {
		category := ""
		if e.Category != nil {
			category = " (" + *e.Category + ")"
		}
		fmt.Fprintf(&b, "  - %s%s: %s\n", e.Name, category, e.Amount.StringFixed(2))
		total = total.Add(e.Amount)
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", total.StringFixed(2))
	return b.String()
}

// Run blocks, firing each job once per day at its configured HH:MM in
// the configured timezone, until ctx is cancelled. The loop ticks every
// minute so a missed tick never fires a job twice.
func (s *NotifyServiceImpl) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info().Msg("notification scheduler disabled")
		return
	}

	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		s.log.Error().Err(err).Str("timezone", s.cfg.Timezone).Msg("invalid timezone, falling back to UTC")
		loc = time.UTC
	}

	s.log.Info().
		Str("reminder_time", s.cfg.ReminderTime).
		Str("summary_time", s.cfg.SummaryTime).
		Str("timezone", loc.String()).
		Msg("notification scheduler started")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var lastReminder, lastSummary string
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("notification scheduler stopped")
			return
		case <-ticker.C:
			now := s.now().In(loc)
			day := now.Format("2006-01-02")
			hhmm := now.Format("15:04")

			if hhmm == s.cfg.ReminderTime && lastReminder != day {
				lastReminder = day
				if err := s.SendDailyReminders(ctx); err != nil {
					s.log.Error().Err(err).Msg("daily reminder job failed")
				}
			}
			if hhmm == s.cfg.SummaryTime && lastSummary != day {
				lastSummary = day
				if err := s.SendDailyExpenseSummaries(ctx); err != nil {
					s.log.Error().Err(err).Msg("expense summary job failed")
				}
			}
		}
	}
}
