package handler

import (
	"net/http"

	"equitrack-backend/internal/adapter/http/dto"
	"equitrack-backend/internal/adapter/http/middleware"
	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/pkg/apperror"
	"equitrack-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet and ledger endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), profileID, req.WalletType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWalletResponse(wallet))
}

// List handles GET /api/v1/wallets. ?active=true narrows to active wallets.
func (h *WalletHandler) List(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}

	activeOnly := c.Query("active") == "true"
	wallets, err := h.walletSvc.ListWallets(c.Request.Context(), profileID, activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		items = append(items, toWalletResponse(&wallets[i]))
	}
	response.OK(c, items)
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), profileID, walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// Update handles PATCH /api/v1/wallets/:id.
func (h *WalletHandler) Update(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.UpdateWallet(c.Request.Context(), profileID, walletID, ports.WalletUpdate{
		WalletType: req.WalletType,
		Currency:   req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// Delete handles DELETE /api/v1/wallets/:id. Removes the wallet and its
// activity history.
func (h *WalletHandler) Delete(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.walletSvc.DeleteWallet(c.Request.Context(), profileID, walletID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wallet deleted"})
}

// Deposit handles POST /api/v1/wallets/:id/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.Deposit(c.Request.Context(), profileID, walletID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// Withdraw handles POST /api/v1/wallets/:id/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.Withdraw(c.Request.Context(), profileID, walletID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// Transfer handles POST /api/v1/wallets/:id/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}
	fromWalletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	toWalletID, err := uuid.Parse(req.ToWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("to_wallet_id must be a valid UUID"))
		return
	}

	if err := h.walletSvc.Transfer(c.Request.Context(), profileID, fromWalletID, toWalletID, req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transfer completed"})
}

// TotalBalance handles GET /api/v1/wallets/total-balance.
func (h *WalletHandler) TotalBalance(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}

	total, err := h.walletSvc.GetTotalBalance(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TotalBalanceResponse{TotalBalance: total})
}

// Activate handles POST /api/v1/wallets/:id/activate.
func (h *WalletHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate handles POST /api/v1/wallets/:id/deactivate.
func (h *WalletHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *WalletHandler) setActive(c *gin.Context, active bool) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var wallet *domain.Wallet
	var err error
	if active {
		wallet, err = h.walletSvc.ActivateWallet(c.Request.Context(), profileID, walletID)
	} else {
		wallet, err = h.walletSvc.DeactivateWallet(c.Request.Context(), profileID, walletID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// Activities handles GET /api/v1/wallets/:id/activities.
func (h *WalletHandler) Activities(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	activities, err := h.walletSvc.ListActivities(c.Request.Context(), profileID, walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ActivityResponse, 0, len(activities))
	for i := range activities {
		items = append(items, toActivityResponse(&activities[i]))
	}
	response.OK(c, items)
}

// authedProfileID extracts the authenticated profile ID set by JWTAuth.
// Writes the error response itself when absent.
func authedProfileID(c *gin.Context) (uuid.UUID, bool) {
	profileID, ok := c.Get(middleware.CtxProfileID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	return profileID.(uuid.UUID), true
}

// pathUUID parses a UUID path parameter. Writes the error response
// itself when malformed.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation(name+" must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// toWalletResponse converts domain.Wallet to DTO.
func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:         w.ID.String(),
		WalletType: w.WalletType,
		Currency:   w.Currency,
		Balance:    w.Balance,
		IsActive:   w.IsActive,
		CreatedAt:  w.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toActivityResponse converts domain.WalletActivity to DTO.
func toActivityResponse(a *domain.WalletActivity) dto.ActivityResponse {
	resp := dto.ActivityResponse{
		ID:        a.ID.String(),
		WalletID:  a.WalletID.String(),
		Type:      string(a.Type),
		Amount:    a.Amount,
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.RelatedWalletID != nil {
		s := a.RelatedWalletID.String()
		resp.RelatedWalletID = &s
	}
	return resp
}
