package postgres

import (
	"context"
	"testing"
	"time"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry(profileID uuid.UUID, kind domain.EntryKind) *domain.Entry {
	category := "Food"
	return &domain.Entry{
		ID:        uuid.New(),
		ProfileID: profileID,
		Kind:      kind,
		Name:      "Groceries",
		Icon:      "cart",
		Category:  &category,
		Amount:    decimal.NewFromInt(1500),
		Date:      time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func entryTestColumns() []string {
	return []string{"id", "profile_id", "kind", "name", "icon", "category", "amount", "entry_date", "created_at", "updated_at"}
}

func entryRow(e *domain.Entry) *pgxmock.Rows {
	return pgxmock.NewRows(entryTestColumns()).AddRow(
		e.ID, e.ProfileID, e.Kind, e.Name, e.Icon,
		e.Category, e.Amount, e.Date, e.CreatedAt, e.UpdatedAt,
	)
}

func TestEntryRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEntryRepo(mock)
	e := newTestEntry(uuid.New(), domain.EntryKindExpense)

	mock.ExpectExec("INSERT INTO entries").
		WithArgs(e.ID, e.ProfileID, e.Kind, e.Name, e.Icon,
			e.Category, e.Amount, e.Date, e.CreatedAt, e.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEntryRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM entries WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(entryTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepo_ListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEntryRepo(mock)
	profileID := uuid.New()
	e := newTestEntry(profileID, domain.EntryKindIncome)

	mock.ExpectQuery("SELECT .+ FROM entries .+ ORDER BY entry_date DESC, created_at DESC\\s+LIMIT").
		WithArgs(profileID, domain.EntryKindIncome, 5).
		WillReturnRows(entryRow(e))

	entries, err := repo.ListRecent(context.Background(), profileID, domain.EntryKindIncome, 5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepo_SumByKind(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEntryRepo(mock)
	profileID := uuid.New()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM entries").
		WithArgs(profileID, domain.EntryKindExpense).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.NewFromInt(14500)))

	total, err := repo.SumByKind(context.Background(), profileID, domain.EntryKindExpense)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(14500)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepo_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEntryRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM entries WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), id)
	assert.Error(t, err)
}

func TestEntryRepo_Filter_AllCriteria(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEntryRepo(mock)
	profileID := uuid.New()
	e := newTestEntry(profileID, domain.EntryKindExpense)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM entries WHERE profile_id = \\$1 AND kind = \\$2 AND entry_date >= \\$3 AND entry_date <= \\$4 AND name ILIKE \\$5 ORDER BY amount ASC").
		WithArgs(profileID, domain.EntryKindExpense, from, to, "%grocer%").
		WillReturnRows(entryRow(e))

	entries, err := repo.Filter(context.Background(), ports.EntryListParams{
		ProfileID: profileID,
		Kind:      domain.EntryKindExpense,
		From:      &from,
		To:        &to,
		Keyword:   "grocer",
		SortField: "amount",
		SortDesc:  false,
	})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepo_Filter_DefaultSort(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEntryRepo(mock)
	profileID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM entries WHERE profile_id = \\$1 AND kind = \\$2 ORDER BY entry_date DESC").
		WithArgs(profileID, domain.EntryKindIncome).
		WillReturnRows(pgxmock.NewRows(entryTestColumns()))

	entries, err := repo.Filter(context.Background(), ports.EntryListParams{
		ProfileID: profileID,
		Kind:      domain.EntryKindIncome,
		SortField: "date",
		SortDesc:  true,
	})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
