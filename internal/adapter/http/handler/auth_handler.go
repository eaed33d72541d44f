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

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	profile, err := h.authSvc.Register(c.Request.Context(), ports.RegisterRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.RegisterResponse{
		ProfileID: profile.ID.String(),
		Email:     profile.Email,
		Message:   "Registration successful. Check your email to activate your account.",
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	token, expiry, profile, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Token:   token,
		Expiry:  expiry.Unix(),
		Profile: toProfileResponse(profile),
	})
}

// Activate handles GET /api/v1/auth/activate?token=...
func (h *AuthHandler) Activate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, apperror.Validation("token query parameter is required"))
		return
	}

	if err := h.authSvc.Activate(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account activated. You can now log in."})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	profileID, ok := c.Get(middleware.CtxProfileID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	profile, err := h.authSvc.GetProfile(c.Request.Context(), profileID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProfileResponse(profile))
}

// toProfileResponse converts domain.Profile to DTO. The password hash
// and activation token never leave the server.
func toProfileResponse(p *domain.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        p.ID.String(),
		FullName:  p.FullName,
		Email:     p.Email,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
