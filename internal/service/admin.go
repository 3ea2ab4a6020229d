package service

import (
	"context"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type adminService struct {
	userRepo repository.UserRepository
	emailSvc EmailService
}

func NewAdminService(userRepo repository.UserRepository, emailSvc EmailService) AdminService {
	return &adminService{userRepo: userRepo, emailSvc: emailSvc}
}

func (s *adminService) ListUsers(ctx context.Context, role domain.UserRole, page, pageSize int32) ([]domain.User, int32, error) {
	if role != "" && !role.Valid() {
		return nil, 0, invalid("unknown role %q", role)
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.userRepo.List(ctx, role, page, pageSize)
}

func (s *adminService) BlockUser(ctx context.Context, adminID, userID int32, block bool, reason string) (*domain.User, error) {
	logger.EnterMethod("adminService.BlockUser", "adminID", adminID, "userID", userID, "block", block)

	if adminID == userID {
		return nil, invalid("admins cannot block themselves")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, forbidden("admin accounts cannot be blocked")
	}

	user.Blocked = block
	user.BlockedReason = ""
	if block {
		user.BlockedReason = reason
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("adminService.BlockUser", err)
		return nil, err
	}

	if err := s.emailSvc.SendAccountStatusNotification(ctx, user.Email, user.Name, block, reason); err != nil {
		logger.Warn("Failed to send account status email", "userID", userID, "error", err)
	}
	logger.ExitMethod("adminService.BlockUser", "userID", userID)
	return user, nil
}
