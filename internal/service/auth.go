package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
	"leasehub-backend/internal/security"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
	ErrAccountBlocked     = fmt.Errorf("%w: account is blocked", domain.ErrForbidden)
)

type authService struct {
	userRepo     repository.UserRepository
	tokens       security.TokenManager
	revoker      security.TokenRevoker
	emailSvc     EmailService
	accessExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, revoker security.TokenRevoker, emailSvc EmailService, accessExpiry time.Duration) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokens:       tokens,
		revoker:      revoker,
		emailSvc:     emailSvc,
		accessExpiry: accessExpiry,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error) {
	logger.EnterMethod("authService.Register", "email", in.Email, "role", in.Role)

	if in.Role != domain.UserRoleTenant && in.Role != domain.UserRoleLandlord {
		err := invalid("role must be tenant or landlord")
		logger.ExitMethodWithError("authService.Register", err)
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         in.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			err = fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		logger.ExitMethodWithError("authService.Register", err)
		return nil, nil, err
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name, user.Role); err != nil {
		logger.Warn("Failed to send welcome email", "userID", user.ID, "error", err)
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	logger.EnterMethod("authService.Login", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.Blocked {
		logger.ExitMethodWithError("authService.Login", ErrAccountBlocked, "userID", user.ID)
		return nil, nil, ErrAccountBlocked
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	logger.ExitMethod("authService.Login", "userID", user.ID)
	return user, pair, nil
}

// RefreshToken rotates a refresh token: the presented one is revoked and a new pair issued.
func (s *authService) RefreshToken(ctx context.Context, refresh string) (*TokenPair, error) {
	claims, err := s.validateRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, security.ErrInvalidToken)
		}
		return nil, err
	}
	if user.Blocked {
		return nil, ErrAccountBlocked
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) Logout(ctx context.Context, refresh string) error {
	claims, err := s.validateRefresh(ctx, refresh)
	if err != nil {
		if errors.Is(err, security.ErrRevokedToken) {
			return nil
		}
		return err
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *authService) validateRefresh(ctx context.Context, refresh string) (*security.UserClaims, error) {
	claims, err := s.tokens.ValidateToken(refresh, security.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, security.ErrRevokedToken)
	}
	return claims, nil
}

func (s *authService) issue(user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessExpiry.Seconds()),
	}, nil
}
