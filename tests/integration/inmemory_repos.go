package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Profile Repo ---

type inMemoryProfileRepo struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]domain.Profile
}

func newInMemoryProfileRepo() *inMemoryProfileRepo {
	return &inMemoryProfileRepo{profiles: make(map[uuid.UUID]domain.Profile)}
}

func (r *inMemoryProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.Email == p.Email {
			return fmt.Errorf("email already exists")
		}
	}
	r.profiles[p.ID] = *p
	return nil
}

func (r *inMemoryProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *inMemoryProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.Email == email {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryProfileRepo) GetByActivationToken(ctx context.Context, token string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.ActivationToken != nil && *p.ActivationToken == token {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryProfileRepo) Activate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return fmt.Errorf("profile not found")
	}
	p.IsActive = true
	p.ActivationToken = nil
	r.profiles[id] = p
	return nil
}

func (r *inMemoryProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		result = append(result, p)
	}
	return result, nil
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirrors the unique (profile_id, wallet_type) constraint.
	for _, existing := range r.wallets {
		if existing.ProfileID == w.ProfileID && existing.WalletType == w.WalletType {
			return fmt.Errorf("wallet type already exists")
		}
	}
	r.wallets[w.ID] = *w
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryWalletRepo) GetByProfileAndType(ctx context.Context, profileID uuid.UUID, walletType string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.ProfileID == profileID && w.WalletType == walletType {
			cp := w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) ListByProfile(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Wallet
	for _, w := range r.wallets {
		if w.ProfileID != profileID {
			continue
		}
		if activeOnly && !w.IsActive {
			continue
		}
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *inMemoryWalletRepo) SumActiveBalances(ctx context.Context, profileID uuid.UUID) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := decimal.Zero
	for _, w := range r.wallets {
		if w.ProfileID == profileID && w.IsActive {
			total = total.Add(w.Balance)
		}
	}
	return total, nil
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.Balance = balance
	w.UpdatedAt = time.Now().UTC()
	r.wallets[walletID] = w
	return nil
}

func (r *inMemoryWalletRepo) SetActive(ctx context.Context, walletID uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.IsActive = active
	r.wallets[walletID] = w
	return nil
}

func (r *inMemoryWalletRepo) Update(ctx context.Context, wallet *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.wallets[wallet.ID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	stored.WalletType = wallet.WalletType
	stored.Currency = wallet.Currency
	stored.UpdatedAt = wallet.UpdatedAt
	r.wallets[wallet.ID] = stored
	return nil
}

func (r *inMemoryWalletRepo) Delete(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wallets, walletID)
	return nil
}

// --- In-Memory Activity Repo ---

type inMemoryActivityRepo struct {
	mu         sync.RWMutex
	activities []domain.WalletActivity
}

func newInMemoryActivityRepo() *inMemoryActivityRepo {
	return &inMemoryActivityRepo{}
}

func (r *inMemoryActivityRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.WalletActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, *a)
	return nil
}

func (r *inMemoryActivityRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WalletActivity
	for _, a := range r.activities {
		if a.WalletID == walletID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *inMemoryActivityRepo) DeleteByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.activities[:0]
	for _, a := range r.activities {
		if a.WalletID != walletID {
			kept = append(kept, a)
		}
	}
	r.activities = kept
	return nil
}

// --- In-Memory Entry Repo ---

type inMemoryEntryRepo struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]domain.Entry
}

func newInMemoryEntryRepo() *inMemoryEntryRepo {
	return &inMemoryEntryRepo{entries: make(map[uuid.UUID]domain.Entry)}
}

func (r *inMemoryEntryRepo) Create(ctx context.Context, e *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = *e
	return nil
}

func (r *inMemoryEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *inMemoryEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

func (r *inMemoryEntryRepo) ListRecent(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind, limit int) ([]domain.Entry, error) {
	result, err := r.ListByKind(ctx, profileID, kind)
	if err != nil {
		return nil, err
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *inMemoryEntryRepo) ListByKind(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) ([]domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Entry
	for _, e := range r.entries {
		if e.ProfileID == profileID && e.Kind == kind {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *inMemoryEntryRepo) ListOnDate(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind, date time.Time) ([]domain.Entry, error) {
	all, err := r.ListByKind(ctx, profileID, kind)
	if err != nil {
		return nil, err
	}
	y, m, d := date.Date()
	var result []domain.Entry
	for _, e := range all {
		ey, em, ed := e.Date.Date()
		if ey == y && em == m && ed == d {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *inMemoryEntryRepo) SumByKind(ctx context.Context, profileID uuid.UUID, kind domain.EntryKind) (decimal.Decimal, error) {
	all, err := r.ListByKind(ctx, profileID, kind)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range all {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (r *inMemoryEntryRepo) Filter(ctx context.Context, params ports.EntryListParams) ([]domain.Entry, error) {
	all, err := r.ListByKind(ctx, params.ProfileID, params.Kind)
	if err != nil {
		return nil, err
	}
	var result []domain.Entry
	for _, e := range all {
		if params.From != nil && e.Date.Before(*params.From) {
			continue
		}
		if params.To != nil && e.Date.After(*params.To) {
			continue
		}
		if params.Keyword != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(params.Keyword)) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		var less bool
		if params.SortField == "amount" {
			less = result[i].Amount.LessThan(result[j].Amount)
		} else {
			less = result[i].Date.Before(result[j].Date)
		}
		if params.SortDesc {
			return !less
		}
		return less
	})
	return result, nil
}

// --- Serializing Transactor ---

// serialTransactor emulates row-level locking with a single global mutex:
// Begin blocks until the previous transaction commits or rolls back. This
// serializes every ledger mutation the way SELECT FOR UPDATE does against
// real PostgreSQL, so balance assertions in concurrency tests are exact.
type serialTransactor struct {
	mu sync.Mutex
}

func newSerialTransactor() *serialTransactor {
	return &serialTransactor{}
}

func (t *serialTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{release: &t.mu}, nil
}

// serialTx is a pgx.Tx that only tracks the global lock. Rollback after
// Commit is a no-op, matching the service's defer-rollback pattern.
type serialTx struct {
	release *sync.Mutex
	done    sync.Once
}

func (t *serialTx) finish() {
	t.done.Do(func() { t.release.Unlock() })
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }

// --- Recording Mailer ---

type sentMail struct {
	To       string
	Subject  string
	Body     string
	Filename string
}

// recordingMailer captures outbound mail for assertions.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{}
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) SendWithAttachment(ctx context.Context, to, subject, body, filename string, attachment []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body, Filename: filename})
	return nil
}

func (m *recordingMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}
