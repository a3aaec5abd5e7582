package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/voyahq/tripdesk/internal/apiserver/database"
	"github.com/voyahq/tripdesk/internal/apiserver/scope"
	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/config"
	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// UserService manages staff accounts and authentication. All management
// surfaces are admin-only.
type UserService struct {
	store  database.Store
	logger *zap.Logger
}

func NewUserService(store database.Store, logger *zap.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger.Named("service.user"),
	}
}

// Authenticate verifies the credentials of an active user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*database.User, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errorx.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errorx.ErrInvalidCredentials
	}
	return user, nil
}

// Profile returns the principal's own account.
func (s *UserService) Profile(ctx context.Context, p scope.Principal) (*database.User, error) {
	user, err := s.store.GetUserByID(ctx, p.UserID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return user, nil
}

// List returns all users, newest first. Admin only.
func (s *UserService) List(ctx context.Context, p scope.Principal) ([]*database.User, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

// Create adds a staff account. A duplicate email is a recoverable conflict.
func (s *UserService) Create(ctx context.Context, p scope.Principal, req *dto.CreateUserRequest) (*database.User, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, errorx.ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &database.User{
		FullName:                 strings.TrimSpace(req.FullName),
		Email:                    email,
		PasswordHash:             string(hash),
		Role:                     cnst.Role(req.Role),
		DefaultCommissionPercent: req.DefaultCommissionPercent,
		IsActive:                 true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		if err := s.store.CreateUser(ctx, user); err != nil {
			return err
		}
		return logAction(ctx, s.store, p.UserID, "Created user", "User", user.ID,
			database.JSONMap{"email": user.Email, "role": string(user.Role)})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, nil
}

// Update edits a staff account. The password is only changed when provided.
// An email already used by another account is a recoverable conflict.
func (s *UserService) Update(ctx context.Context, p scope.Principal, id uint, req *dto.UpdateUserRequest) (*database.User, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if conflict, err := s.store.GetUserByEmail(ctx, email); err == nil && conflict.ID != user.ID {
		return nil, errorx.ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.Email = email
	user.Role = cnst.Role(req.Role)
	user.DefaultCommissionPercent = req.DefaultCommissionPercent
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return err
		}
		return logAction(ctx, s.store, p.UserID, "Updated user", "User", user.ID,
			database.JSONMap{"email": user.Email, "role": string(user.Role)})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureSuperAdmin seeds the bootstrap administrator on startup when the
// configured email does not exist yet.
func (s *UserService) EnsureSuperAdmin(ctx context.Context, cfg *config.SuperAdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	fullName := cfg.FullName
	if fullName == "" {
		fullName = "System Admin"
	}
	admin := &database.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         cnst.RoleAdmin,
		IsActive:     true,
	}
	if err := s.store.CreateUser(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("super admin created", zap.String("email", email))
	return nil
}
