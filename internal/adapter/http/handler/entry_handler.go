package handler

import (
	"net/http"
	"strings"
	"time"

	"equitrack-backend/internal/adapter/http/dto"
	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/pkg/apperror"
	"equitrack-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// EntryHandler handles income and expense endpoints. The entry kind is
// fixed per handler instance so the same code serves both route groups.
type EntryHandler struct {
	entrySvc ports.EntryService
	kind     domain.EntryKind
}

// NewEntryHandler creates an EntryHandler bound to one entry kind.
func NewEntryHandler(entrySvc ports.EntryService, kind domain.EntryKind) *EntryHandler {
	return &EntryHandler{entrySvc: entrySvc, kind: kind}
}

// Create handles POST /api/v1/incomes and POST /api/v1/expenses.
func (h *EntryHandler) Create(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	entry, err := h.entrySvc.CreateEntry(c.Request.Context(), profileID, ports.CreateEntryRequest{
		Kind:     h.kind,
		Name:     req.Name,
		Icon:     req.Icon,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toEntryResponse(entry))
}

// List handles GET /api/v1/incomes and GET /api/v1/expenses.
func (h *EntryHandler) List(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}

	entries, err := h.entrySvc.ListEntries(c.Request.Context(), profileID, h.kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toEntryResponse(&entries[i]))
	}
	response.OK(c, items)
}

// Delete handles DELETE /api/v1/incomes/:id and DELETE /api/v1/expenses/:id.
func (h *EntryHandler) Delete(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.entrySvc.DeleteEntry(c.Request.Context(), profileID, entryID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// FilterHandler handles the cross-kind transaction filter endpoint.
type FilterHandler struct {
	entrySvc ports.EntryService
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(entrySvc ports.EntryService) *FilterHandler {
	return &FilterHandler{entrySvc: entrySvc}
}

// Filter handles POST /api/v1/filter.
func (h *FilterHandler) Filter(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}

	var req dto.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	entries, err := h.entrySvc.Filter(c.Request.Context(), profileID, ports.FilterRequest{
		Kind:      domain.EntryKind(strings.ToUpper(req.Type)),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Keyword:   req.Keyword,
		SortField: req.SortField,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toEntryResponse(&entries[i]))
	}
	response.OK(c, items)
}

// toEntryResponse converts domain.Entry to DTO.
func toEntryResponse(e *domain.Entry) dto.EntryResponse {
	return dto.EntryResponse{
		ID:        e.ID.String(),
		Kind:      string(e.Kind),
		Name:      e.Name,
		Icon:      e.Icon,
		Category:  e.Category,
		Amount:    e.Amount,
		Date:      e.Date.Format("2006-01-02"),
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
