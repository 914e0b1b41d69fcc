package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tabegoro/tabegoro-backend/internal/users"
	pkgauth "github.com/tabegoro/tabegoro-backend/pkg/auth"
	"github.com/tabegoro/tabegoro-backend/pkg/config"
	"github.com/tabegoro/tabegoro-backend/pkg/db"
	"github.com/tabegoro/tabegoro-backend/pkg/db/models"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
	"github.com/tabegoro/tabegoro-backend/pkg/security"
)

// maxDisplayIDAttempts bounds the retry loop when concurrent registrations
// race for the same member number.
const maxDisplayIDAttempts = 5

// RegisterService handles the account creation transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
	JWTConfig      config.JWTConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		jwtCfg:      params.JWTConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if err := security.ValidatePassword(req.Password); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.createWithDisplayID(ctx, email, username, passwordHash)
	if err != nil {
		return nil, err
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{UserID: user.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &AuthResponse{
		Token: token,
		User:  users.FromModel(user),
	}, nil
}

// createWithDisplayID allocates the next member number and inserts the user.
// A concurrent registration can claim the number between read and write, so
// the insert retries with a fresh number a bounded number of times.
func (s *registerService) createWithDisplayID(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	var created *models.User

	for attempt := 0; attempt < maxDisplayIDAttempts; attempt++ {
		err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			repo := users.NewRepository(tx)

			if _, err := repo.FindByEmail(ctx, email); err == nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
			}

			if _, err := repo.FindByUsername(ctx, username); err == nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
			}

			max, err := repo.MaxDisplayNumber(ctx)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate member number")
			}

			user, err := repo.Create(ctx, users.CreateUserDTO{
				Email:        email,
				Username:     username,
				PasswordHash: passwordHash,
				UniqueID:     fmt.Sprintf("#%d", max+1),
			})
			if err != nil {
				return err
			}
			created = user
			return nil
		})

		if err == nil {
			return created, nil
		}
		if db.IsUniqueViolation(err, "idx_users_unique_id") {
			continue
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email or username already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate member number, please retry")
}
