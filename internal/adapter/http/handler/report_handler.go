package handler

import (
	"net/http"
	"strings"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles spreadsheet export endpoints. Like EntryHandler
// it is bound to one entry kind per instance.
type ReportHandler struct {
	reportSvc ports.ReportService
	kind      domain.EntryKind
}

// NewReportHandler creates a ReportHandler bound to one entry kind.
func NewReportHandler(reportSvc ports.ReportService, kind domain.EntryKind) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, kind: kind}
}

// Download handles GET /api/v1/incomes/download and
// GET /api/v1/expenses/download. Streams the report as an attachment.
func (h *ReportHandler) Download(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}

	data, filename, err := h.reportSvc.ExportEntries(c.Request.Context(), profileID, h.kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	contentType := "text/csv"
	if strings.HasSuffix(filename, ".xlsx") {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Data(http.StatusOK, contentType, data)
}

// Email handles GET /api/v1/incomes/email and GET /api/v1/expenses/email.
// Sends the report to the profile's registered address.
func (h *ReportHandler) Email(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}

	if err := h.reportSvc.EmailEntries(c.Request.Context(), profileID, h.kind); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report sent to your email"})
}
