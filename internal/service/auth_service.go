package service

import (
	"context"
	"fmt"
	"time"

	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"
	"equitrack-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	profileRepo   ports.ProfileRepository
	hashSvc       ports.HashService
	tokenSvc      ports.TokenService
	mailer        ports.EmailSender
	activationURL string
	log           zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	profileRepo ports.ProfileRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	mailer ports.EmailSender,
	activationURL string,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		profileRepo:   profileRepo,
		hashSvc:       hashSvc,
		tokenSvc:      tokenSvc,
		mailer:        mailer,
		activationURL: activationURL,
		log:           log,
	}
}

// Register creates a new inactive profile and emails its activation link.
// The account cannot log in until the link is visited.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.Profile, error) {
	existing, err := s.profileRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	activationToken := uuid.New().String()

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:              uuid.New(),
		FullName:        req.FullName,
		Email:           req.Email,
		PasswordHash:    passwordHash,
		IsActive:        false,
		ActivationToken: &activationToken,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create profile: %w", err))
	}

	// Best-effort delivery: a lost email means the user re-registers or
	// requests a resend, never a failed registration.
	link := fmt.Sprintf("%s?token=%s", s.activationURL, activationToken)
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for signing up. Click the link below to activate your account:\n\n%s\n",
		profile.FullName, link,
	)
	if err := s.mailer.Send(ctx, profile.Email, "Activate your EquiTrack account", body); err != nil {
		s.log.Warn().Err(err).Str("email", profile.Email).Msg("failed to send activation email")
	}

	s.log.Info().
		Str("profile_id", profile.ID.String()).
		Str("email", profile.Email).
		Msg("profile registered")

	return profile, nil
}

// Activate flips the profile active by its one-time activation token.
func (s *AuthServiceImpl) Activate(ctx context.Context, token string) error {
	profile, err := s.profileRepo.GetByActivationToken(ctx, token)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find activation token: %w", err))
	}
	if profile == nil {
		return apperror.ErrInvalidToken()
	}

	if err := s.profileRepo.Activate(ctx, profile.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("activate profile: %w", err))
	}

	s.log.Info().Str("profile_id", profile.ID.String()).Msg("profile activated")

	return nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, time.Time, *domain.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, nil, apperror.InternalError(fmt.Errorf("find profile: %w", err))
	}
	if profile == nil {
		return "", time.Time{}, nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, profile.PasswordHash)
	if err != nil {
		return "", time.Time{}, nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, nil, apperror.ErrInvalidCredentials()
	}

	if !profile.IsActive {
		return "", time.Time{}, nil, apperror.ErrAccountNotActive()
	}

	token, expiry, err := s.tokenSvc.Generate(profile.ID, profile.Email)
	if err != nil {
		return "", time.Time{}, nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, profile, nil
}

// GetProfile returns the profile for the authenticated caller.
func (s *AuthServiceImpl) GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("profile")
	}
	return profile, nil
}
