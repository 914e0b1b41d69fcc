package public

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tabegoro/tabegoro-backend/internal/restaurants"
	"github.com/tabegoro/tabegoro-backend/pkg/db"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
)

// Service is the unauthenticated read-only projection over published
// restaurants. An unpublished record is indistinguishable from a missing one.
type Service interface {
	GetBySlug(ctx context.Context, slug string) (*restaurants.RestaurantDTO, error)
	ListPublished(ctx context.Context) ([]restaurants.RestaurantDTO, error)
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies required to build the public projection.
type ServiceParams struct {
	DB *db.Client
}

// NewService constructs the public read service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*restaurants.RestaurantDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
	}

	repo := restaurants.NewRepository(s.db.DB())
	restaurant, err := repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup restaurant")
	}
	return restaurants.FromModel(restaurant), nil
}

func (s *service) ListPublished(ctx context.Context) ([]restaurants.RestaurantDTO, error) {
	repo := restaurants.NewRepository(s.db.DB())
	list, err := repo.ListPublished(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list restaurants")
	}
	return restaurants.FromModels(list), nil
}
