package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tabegoro/tabegoro-backend/pkg/config"
	"github.com/tabegoro/tabegoro-backend/pkg/db"
	"github.com/tabegoro/tabegoro-backend/pkg/db/models"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
	"github.com/tabegoro/tabegoro-backend/pkg/security"
)

// UpdateProfileRequest carries a partial profile update. Nil fields are left
// untouched.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty"`
}

// Service defines the account operations available to an authenticated user.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
	UpdateUsername(ctx context.Context, userID uuid.UUID, username string) (*UserDTO, error)
	UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (*UserDTO, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, password string) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	repo := NewRepository(s.db.DB())
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	if req.Username == nil && req.Email == nil && req.Password == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	updates := map[string]any{}

	if req.Username != nil {
		username, err := s.normalizeUsername(ctx, userID, *req.Username)
		if err != nil {
			return nil, err
		}
		updates["username"] = username
	}
	if req.Email != nil {
		email, err := s.normalizeEmail(ctx, userID, *req.Email)
		if err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if req.Password != nil {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}

	return s.applyUpdates(ctx, userID, updates)
}

func (s *service) UpdateUsername(ctx context.Context, userID uuid.UUID, username string) (*UserDTO, error) {
	normalized, err := s.normalizeUsername(ctx, userID, username)
	if err != nil {
		return nil, err
	}
	return s.applyUpdates(ctx, userID, map[string]any{"username": normalized})
}

func (s *service) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (*UserDTO, error) {
	normalized, err := s.normalizeEmail(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	return s.applyUpdates(ctx, userID, map[string]any{"email": normalized})
}

func (s *service) UpdatePassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.applyUpdates(ctx, userID, map[string]any{"password_hash": hash})
	return err
}

// Delete removes the account and every restaurant it owns in one transaction.
func (s *service) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}

		if err := tx.WithContext(ctx).Delete(&models.Restaurant{}, "user_id = ?", userID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete owned restaurants")
		}
		if err := repo.Delete(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
		}
		return nil
	})
}

func (s *service) applyUpdates(ctx context.Context, userID uuid.UUID, updates map[string]any) (*UserDTO, error) {
	repo := NewRepository(s.db.DB())

	if _, err := repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if err := repo.UpdateColumns(ctx, userID, updates); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username or email already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}

	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
	}
	return FromModel(user), nil
}

func (s *service) normalizeUsername(ctx context.Context, userID uuid.UUID, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	repo := NewRepository(s.db.DB())
	existing, err := repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if err == nil && existing.ID != userID {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	}
	return username, nil
}

func (s *service) normalizeEmail(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	repo := NewRepository(s.db.DB())
	existing, err := repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	if err == nil && existing.ID != userID {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	return email, nil
}

func (s *service) hashPassword(password string) (string, error) {
	if err := security.ValidatePassword(password); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return hash, nil
}
