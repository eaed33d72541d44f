package handler

import (
	"net/http"

	"equitrack-backend/internal/core/ports"
	"equitrack-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles the aggregated dashboard endpoint.
type DashboardHandler struct {
	dashboardSvc ports.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardSvc ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Get handles GET /api/v1/dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	profileID, ok := authedProfileID(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardSvc.GetDashboard(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dashboard)
}

// HealthCheck handles GET /health. Deep check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
