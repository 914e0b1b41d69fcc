package restaurants

import (
	"time"

	"github.com/google/uuid"

	"github.com/tabegoro/tabegoro-backend/pkg/db/models"
	"github.com/tabegoro/tabegoro-backend/pkg/types"
)

// RestaurantDTO is the transport shape for both the owner and public surfaces.
type RestaurantDTO struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"userId"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Description   *string             `json:"description,omitempty"`
	Category      *string             `json:"category,omitempty"`
	ImageURL      *string             `json:"imageUrl,omitempty"`
	CoverImageURL *string             `json:"coverImageUrl,omitempty"`
	Contacts      *types.Contacts     `json:"contacts,omitempty"`
	Address       *types.Address      `json:"address,omitempty"`
	Hours         types.Hours         `json:"hours,omitempty"`
	PriceRange    *types.PriceRange   `json:"priceRange,omitempty"`
	Attributes    types.JSONMap       `json:"attributes,omitempty"`
	Media         types.JSONMap       `json:"media,omitempty"`
	MenuItems     types.MenuItems     `json:"menuItems"`
	FeaturedDish  *types.FeaturedDish `json:"featuredDish,omitempty"`
	SocialLinks   types.StringMap     `json:"socialLinks,omitempty"`
	IsPublished   bool                `json:"isPublished"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// CreateRequest carries the fields accepted at creation time. Records always
// start unpublished.
type CreateRequest struct {
	Name          string              `json:"name" validate:"required,min=1,max=120"`
	Description   *string             `json:"description,omitempty"`
	Category      *string             `json:"category,omitempty"`
	ImageURL      *string             `json:"imageUrl,omitempty" validate:"omitempty,url"`
	CoverImageURL *string             `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
	Contacts      *types.Contacts     `json:"contacts,omitempty"`
	Address       *types.Address      `json:"address,omitempty"`
	Hours         types.Hours         `json:"hours,omitempty" validate:"omitempty,dive"`
	PriceRange    *types.PriceRange   `json:"priceRange,omitempty"`
	Attributes    types.JSONMap       `json:"attributes,omitempty"`
	Media         types.JSONMap       `json:"media,omitempty"`
	MenuItems     types.MenuItems     `json:"menuItems,omitempty" validate:"omitempty,dive"`
	FeaturedDish  *types.FeaturedDish `json:"featuredDish,omitempty"`
	SocialLinks   types.StringMap     `json:"socialLinks,omitempty"`
}

// UpdateRequest is a partial update: nil fields are left untouched. Name
// changes trigger slug regeneration; everything else is copied through.
type UpdateRequest struct {
	Name          *string             `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description   *string             `json:"description,omitempty"`
	Category      *string             `json:"category,omitempty"`
	ImageURL      *string             `json:"imageUrl,omitempty" validate:"omitempty,url"`
	CoverImageURL *string             `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
	Contacts      *types.Contacts     `json:"contacts,omitempty"`
	Address       *types.Address      `json:"address,omitempty"`
	Hours         *types.Hours        `json:"hours,omitempty" validate:"omitempty,dive"`
	PriceRange    *types.PriceRange   `json:"priceRange,omitempty"`
	Attributes    *types.JSONMap      `json:"attributes,omitempty"`
	Media         *types.JSONMap      `json:"media,omitempty"`
	MenuItems     *types.MenuItems    `json:"menuItems,omitempty" validate:"omitempty,dive"`
	FeaturedDish  *types.FeaturedDish `json:"featuredDish,omitempty"`
	SocialLinks   *types.StringMap    `json:"socialLinks,omitempty"`
}

func (u UpdateRequest) isEmpty() bool {
	return u.Name == nil &&
		u.Description == nil &&
		u.Category == nil &&
		u.ImageURL == nil &&
		u.CoverImageURL == nil &&
		u.Contacts == nil &&
		u.Address == nil &&
		u.Hours == nil &&
		u.PriceRange == nil &&
		u.Attributes == nil &&
		u.Media == nil &&
		u.MenuItems == nil &&
		u.FeaturedDish == nil &&
		u.SocialLinks == nil
}

func FromModel(m *models.Restaurant) *RestaurantDTO {
	if m == nil {
		return nil
	}
	return &RestaurantDTO{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Slug:          m.Slug,
		Description:   m.Description,
		Category:      m.Category,
		ImageURL:      m.ImageURL,
		CoverImageURL: m.CoverImageURL,
		Contacts:      m.Contacts,
		Address:       m.Address,
		Hours:         m.Hours,
		PriceRange:    m.PriceRange,
		Attributes:    m.Attributes,
		Media:         m.Media,
		MenuItems:     m.MenuItems,
		FeaturedDish:  m.FeaturedDish,
		SocialLinks:   m.SocialLinks,
		IsPublished:   m.IsPublished,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func FromModels(ms []models.Restaurant) []RestaurantDTO {
	out := make([]RestaurantDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}
