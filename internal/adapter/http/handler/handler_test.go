package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"equitrack-backend/internal/adapter/http/dto"
	"equitrack-backend/internal/adapter/http/middleware"
	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/internal/core/ports/mocks"
	"equitrack-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJSONContext(t *testing.T, method string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, "/", reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func authedContext(t *testing.T, method string, body interface{}, profileID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, w := newJSONContext(t, method, body)
	c.Set(middleware.CtxProfileID, profileID)
	return c, w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	profileID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		FullName: "Juan Dela Cruz",
		Email:    "juan@example.com",
		Password: "password123",
	}).Return(&domain.Profile{
		ID:       profileID,
		FullName: "Juan Dela Cruz",
		Email:    "juan@example.com",
	}, nil)

	c, w := newJSONContext(t, http.MethodPost, dto.RegisterRequest{
		FullName: "Juan Dela Cruz",
		Email:    "juan@example.com",
		Password: "password123",
	})

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, profileID.String(), data["profile_id"])
	assert.Equal(t, "juan@example.com", data["email"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrEmailExists())

	c, w := newJSONContext(t, http.MethodPost, dto.RegisterRequest{
		FullName: "Juan Dela Cruz",
		Email:    "taken@example.com",
		Password: "password123",
	})

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	profile := &domain.Profile{
		ID:       uuid.New(),
		FullName: "Juan Dela Cruz",
		Email:    "juan@example.com",
		IsActive: true,
	}
	mockAuth.EXPECT().Login(gomock.Any(), "juan@example.com", "password123").
		Return("jwt-token-123", expiry, profile, nil)

	c, w := newJSONContext(t, http.MethodPost, dto.LoginRequest{
		Email:    "juan@example.com",
		Password: "password123",
	})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "jwt-token-123", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "juan@example.com", "wrong").
		Return("", time.Time{}, nil, apperror.ErrInvalidCredentials())

	c, w := newJSONContext(t, http.MethodPost, dto.LoginRequest{
		Email:    "juan@example.com",
		Password: "wrong",
	})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActivate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Activate(gomock.Any(), "tok-123").Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/auth/activate?token=tok-123", nil)

	h.Activate(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActivate_MissingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/auth/activate", nil)

	h.Activate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	profileID := uuid.New()
	mockAuth.EXPECT().GetProfile(gomock.Any(), profileID).Return(&domain.Profile{
		ID:       profileID,
		FullName: "Juan Dela Cruz",
		Email:    "juan@example.com",
		IsActive: true,
	}, nil)

	c, w := authedContext(t, http.MethodGet, nil, profileID)

	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "Juan Dela Cruz", data["full_name"])
	assert.Equal(t, true, data["is_active"])
}

func TestMe_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	c, w := newJSONContext(t, http.MethodGet, nil)

	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Wallet Handler Tests ---

func TestWalletCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	profileID := uuid.New()
	walletID := uuid.New()
	mockWallet.EXPECT().CreateWallet(gomock.Any(), profileID, "Savings").Return(&domain.Wallet{
		ID:         walletID,
		ProfileID:  profileID,
		WalletType: "Savings",
		Currency:   domain.DefaultCurrency,
		Balance:    decimal.Zero,
		IsActive:   true,
	}, nil)

	c, w := authedContext(t, http.MethodPost, dto.CreateWalletRequest{WalletType: "Savings"}, profileID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, walletID.String(), data["id"])
	assert.Equal(t, "Savings", data["wallet_type"])
	assert.Equal(t, "PHP", data["currency"])
}

func TestWalletCreate_DuplicateType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	profileID := uuid.New()
	mockWallet.EXPECT().CreateWallet(gomock.Any(), profileID, "Savings").
		Return(nil, apperror.ErrDuplicateWalletType("Savings"))

	c, w := authedContext(t, http.MethodPost, dto.CreateWalletRequest{WalletType: "Savings"}, profileID)

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWalletGet_InvalidUUID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	c, w := authedContext(t, http.MethodGet, nil, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	profileID := uuid.New()
	walletID := uuid.New()
	amount := decimal.NewFromInt(500)
	mockWallet.EXPECT().Deposit(gomock.Any(), profileID, walletID, amount).Return(&domain.Wallet{
		ID:         walletID,
		ProfileID:  profileID,
		WalletType: "Savings",
		Currency:   "PHP",
		Balance:    decimal.NewFromInt(1500),
		IsActive:   true,
	}, nil)

	c, w := authedContext(t, http.MethodPost, dto.AmountRequest{Amount: amount}, profileID)
	c.Params = gin.Params{{Key: "id", Value: walletID.String()}}

	h.Deposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "1500", data["balance"])
}

func TestWalletWithdraw_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	profileID := uuid.New()
	walletID := uuid.New()
	amount := decimal.NewFromInt(900)
	mockWallet.EXPECT().Withdraw(gomock.Any(), profileID, walletID, amount).
		Return(nil, apperror.ErrInsufficientBalance("100.00", "900.00"))

	c, w := authedContext(t, http.MethodPost, dto.AmountRequest{Amount: amount}, profileID)
	c.Params = gin.Params{{Key: "id", Value: walletID.String()}}

	h.Withdraw(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "WAL_001")
}

func TestWalletTransfer_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	profileID := uuid.New()
	fromID := uuid.New()
	toID := uuid.New()
	amount := decimal.NewFromInt(250)
	mockWallet.EXPECT().Transfer(gomock.Any(), profileID, fromID, toID, amount).Return(nil)

	c, w := authedContext(t, http.MethodPost, dto.TransferRequest{
		ToWalletID: toID.String(),
		Amount:     amount,
	}, profileID)
	c.Params = gin.Params{{Key: "id", Value: fromID.String()}}

	h.Transfer(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWalletTransfer_BadDestination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	c, w := authedContext(t, http.MethodPost, map[string]interface{}{
		"to_wallet_id": "nope",
		"amount":       "10",
	}, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

	h.Transfer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletTotalBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	profileID := uuid.New()
	mockWallet.EXPECT().GetTotalBalance(gomock.Any(), profileID).
		Return(decimal.NewFromFloat(1234.56), nil)

	c, w := authedContext(t, http.MethodGet, nil, profileID)

	h.TotalBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "1234.56", data["total_balance"])
}

func TestWalletList_ActiveOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	profileID := uuid.New()
	mockWallet.EXPECT().ListWallets(gomock.Any(), profileID, true).
		Return([]domain.Wallet{{ID: uuid.New(), WalletType: "Savings", IsActive: true}}, nil)

	c, w := authedContext(t, http.MethodGet, nil, profileID)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallets?active=true", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWalletDeactivate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	profileID := uuid.New()
	walletID := uuid.New()
	mockWallet.EXPECT().DeactivateWallet(gomock.Any(), profileID, walletID).Return(&domain.Wallet{
		ID:         walletID,
		WalletType: "Savings",
		Balance:    decimal.NewFromInt(300),
		IsActive:   false,
	}, nil)

	c, w := authedContext(t, http.MethodPost, nil, profileID)
	c.Params = gin.Params{{Key: "id", Value: walletID.String()}}

	h.Deactivate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, false, data["is_active"])
}

// --- Entry Handler Tests ---

func TestEntryCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEntry := mocks.NewMockEntryService(ctrl)
	h := NewEntryHandler(mockEntry, domain.EntryKindIncome)

	profileID := uuid.New()
	entryID := uuid.New()
	amount := decimal.NewFromInt(50000)
	mockEntry.EXPECT().CreateEntry(gomock.Any(), profileID, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ uuid.UUID, req ports.CreateEntryRequest) (*domain.Entry, error) {
			assert.Equal(t, domain.EntryKindIncome, req.Kind)
			assert.Equal(t, "Salary", req.Name)
			assert.True(t, req.Amount.Equal(amount))
			return &domain.Entry{
				ID:        entryID,
				ProfileID: profileID,
				Kind:      domain.EntryKindIncome,
				Name:      req.Name,
				Amount:    req.Amount,
				Date:      time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			}, nil
		})

	c, w := authedContext(t, http.MethodPost, dto.CreateEntryRequest{
		Name:   "Salary",
		Amount: amount,
	}, profileID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, entryID.String(), data["id"])
	assert.Equal(t, "INCOME", data["kind"])
	assert.Equal(t, "2025-06-30", data["date"])
}

func TestEntryCreate_MissingName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEntry := mocks.NewMockEntryService(ctrl)
	h := NewEntryHandler(mockEntry, domain.EntryKindExpense)

	c, w := authedContext(t, http.MethodPost, map[string]interface{}{"amount": "10"}, uuid.New())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntryDelete_NotOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEntry := mocks.NewMockEntryService(ctrl)
	h := NewEntryHandler(mockEntry, domain.EntryKindExpense)

	profileID := uuid.New()
	entryID := uuid.New()
	mockEntry.EXPECT().DeleteEntry(gomock.Any(), profileID, entryID).
		Return(apperror.ErrNotOwner("Entry"))

	c, w := authedContext(t, http.MethodDelete, nil, profileID)
	c.Params = gin.Params{{Key: "id", Value: entryID.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFilter_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEntry := mocks.NewMockEntryService(ctrl)
	h := NewFilterHandler(mockEntry)

	profileID := uuid.New()
	mockEntry.EXPECT().Filter(gomock.Any(), profileID, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ uuid.UUID, req ports.FilterRequest) ([]domain.Entry, error) {
			assert.Equal(t, domain.EntryKindExpense, req.Kind)
			assert.Equal(t, "grocery", req.Keyword)
			assert.Equal(t, "amount", req.SortField)
			return []domain.Entry{{ID: uuid.New(), Kind: domain.EntryKindExpense, Name: "Groceries"}}, nil
		})

	c, w := authedContext(t, http.MethodPost, dto.FilterRequest{
		Type:      "expense",
		Keyword:   "grocery",
		SortField: "amount",
		SortOrder: "desc",
	}, profileID)

	h.Filter(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Dashboard Handler Tests ---

func TestDashboardGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDash := mocks.NewMockDashboardService(ctrl)
	h := NewDashboardHandler(mockDash)

	profileID := uuid.New()
	mockDash.EXPECT().GetDashboard(gomock.Any(), profileID).Return(&ports.Dashboard{
		TotalBalance: decimal.NewFromInt(35500),
		TotalIncome:  decimal.NewFromInt(50000),
		TotalExpense: decimal.NewFromInt(14500),
	}, nil)

	c, w := authedContext(t, http.MethodGet, nil, profileID)

	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "35500", data["total_balance"])
	assert.Equal(t, "50000", data["total_income"])
}

// --- Report Handler Tests ---

func TestReportDownload_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReport := mocks.NewMockReportService(ctrl)
	h := NewReportHandler(mockReport, domain.EntryKindExpense)

	profileID := uuid.New()
	content := []byte("Expense Details\nName,Amount,Date,Category\n")
	mockReport.EXPECT().ExportEntries(gomock.Any(), profileID, domain.EntryKindExpense).
		Return(content, "expense_details.csv", nil)

	c, w := authedContext(t, http.MethodGet, nil, profileID)

	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="expense_details.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, content, w.Body.Bytes())
}

func TestReportEmail_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReport := mocks.NewMockReportService(ctrl)
	h := NewReportHandler(mockReport, domain.EntryKindIncome)

	profileID := uuid.New()
	mockReport.EXPECT().EmailEntries(gomock.Any(), profileID, domain.EntryKindIncome).Return(nil)

	c, w := authedContext(t, http.MethodGet, nil, profileID)

	h.Email(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReportEmail_ProfileMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReport := mocks.NewMockReportService(ctrl)
	h := NewReportHandler(mockReport, domain.EntryKindIncome)

	profileID := uuid.New()
	mockReport.EXPECT().EmailEntries(gomock.Any(), profileID, domain.EntryKindIncome).
		Return(apperror.ErrNotFound("Profile"))

	c, w := authedContext(t, http.MethodGet, nil, profileID)

	h.Email(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Router smoke tests ---

func TestSetupRouter_HealthEndpoint(t *testing.T) {
	router := SetupRouter(RouterDeps{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestSetupRouter_ProtectedRouteRequiresToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	router := SetupRouter(RouterDeps{TokenSvc: tokenSvc})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
