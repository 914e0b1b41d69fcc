package restaurants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tabegoro/tabegoro-backend/pkg/db"
	"github.com/tabegoro/tabegoro-backend/pkg/db/models"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
)

// maxSlugAttempts bounds the probe-then-write loop: a concurrent writer can
// claim the probed slug before our write lands, so the write retries with a
// fresh probe instead of failing on the first collision.
const maxSlugAttempts = 5

// Service owns the restaurant lifecycle for authenticated owners.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*RestaurantDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]RestaurantDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*RestaurantDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*RestaurantDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetPublished(ctx context.Context, userID, id uuid.UUID, published bool) (*RestaurantDTO, error)
	RegenerateSlug(ctx context.Context, userID, id uuid.UUID) (*RestaurantDTO, error)
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies required to build a restaurants service.
type ServiceParams struct {
	DB *db.Client
}

// NewService constructs a restaurants service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) repo() *Repository {
	return NewRepository(s.db.DB())
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*RestaurantDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	repo := s.repo()

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := generateSlug(ctx, repo, name, nil)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "probe slug")
		}

		restaurant := &models.Restaurant{
			ID:            uuid.New(),
			UserID:        userID,
			Name:          name,
			Slug:          slug,
			Description:   req.Description,
			Category:      req.Category,
			ImageURL:      req.ImageURL,
			CoverImageURL: req.CoverImageURL,
			Contacts:      req.Contacts,
			Address:       req.Address,
			Hours:         req.Hours,
			PriceRange:    req.PriceRange,
			Attributes:    req.Attributes,
			Media:         req.Media,
			MenuItems:     req.MenuItems,
			FeaturedDish:  req.FeaturedDish,
			SocialLinks:   req.SocialLinks,
			IsPublished:   false,
		}

		err = repo.Create(ctx, restaurant)
		if err == nil {
			return FromModel(restaurant), nil
		}
		if db.IsUniqueViolation(err, "idx_restaurants_slug") {
			continue
		}
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeRelatedRecord, "owner account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create restaurant")
	}

	return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique slug, please retry")
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]RestaurantDTO, error) {
	restaurants, err := s.repo().ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list restaurants")
	}
	return FromModels(restaurants), nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*RestaurantDTO, error) {
	restaurant, err := s.ownedRestaurant(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(restaurant), nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*RestaurantDTO, error) {
	if req.isEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	stored, err := s.ownedRestaurant(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.CoverImageURL != nil {
		updates["cover_image_url"] = *req.CoverImageURL
	}
	if req.Contacts != nil {
		updates["contacts"] = req.Contacts
	}
	if req.Address != nil {
		updates["address"] = req.Address
	}
	if req.Hours != nil {
		updates["hours"] = *req.Hours
	}
	if req.PriceRange != nil {
		updates["price_range"] = req.PriceRange
	}
	if req.Attributes != nil {
		updates["attributes"] = *req.Attributes
	}
	if req.Media != nil {
		updates["media"] = *req.Media
	}
	if req.MenuItems != nil {
		updates["menu_items"] = *req.MenuItems
	}
	if req.FeaturedDish != nil {
		updates["featured_dish"] = req.FeaturedDish
	}
	if req.SocialLinks != nil {
		updates["social_links"] = *req.SocialLinks
	}

	nameChanged := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
		nameChanged = name != stored.Name
	}

	if !nameChanged {
		if err := s.repo().UpdateColumns(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update restaurant")
		}
		return s.reload(ctx, id)
	}

	// A changed name regenerates the slug, and the combined write retries
	// when a concurrent writer claims the probed slug first.
	name := updates["name"].(string)
	return s.writeWithSlug(ctx, id, name, updates)
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedRestaurant(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo().Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete restaurant")
	}
	return nil
}

func (s *service) SetPublished(ctx context.Context, userID, id uuid.UUID, published bool) (*RestaurantDTO, error) {
	if _, err := s.ownedRestaurant(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.repo().UpdateColumns(ctx, id, map[string]any{"is_published": published}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update publication state")
	}
	return s.reload(ctx, id)
}

func (s *service) RegenerateSlug(ctx context.Context, userID, id uuid.UUID) (*RestaurantDTO, error) {
	stored, err := s.ownedRestaurant(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.writeWithSlug(ctx, id, stored.Name, map[string]any{})
}

// writeWithSlug probes a slug for name, folds it into the column write, and
// retries the whole probe+write on a slug uniqueness violation.
func (s *service) writeWithSlug(ctx context.Context, id uuid.UUID, name string, updates map[string]any) (*RestaurantDTO, error) {
	repo := s.repo()

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := generateSlug(ctx, repo, name, &id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "probe slug")
		}
		updates["slug"] = slug

		err = repo.UpdateColumns(ctx, id, updates)
		if err == nil {
			return s.reload(ctx, id)
		}
		if db.IsUniqueViolation(err, "idx_restaurants_slug") {
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update restaurant")
	}

	return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique slug, please retry")
}

// ownedRestaurant loads the record and enforces the access order: a missing
// record is NotFound even to a non-owner; only an existing record owned by
// someone else is Forbidden.
func (s *service) ownedRestaurant(ctx context.Context, userID, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.repo().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup restaurant")
	}
	if restaurant.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this restaurant")
	}
	return restaurant, nil
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*RestaurantDTO, error) {
	restaurant, err := s.repo().FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload restaurant")
	}
	return FromModel(restaurant), nil
}
