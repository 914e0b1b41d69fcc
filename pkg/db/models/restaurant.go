package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tabegoro/tabegoro-backend/pkg/types"
)

// Restaurant is an owner-scoped listing. Published rows are the only ones
// visible through the public projection.
type Restaurant struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:idx_restaurants_user_id"`
	Name          string              `gorm:"column:name;not null"`
	Slug          string              `gorm:"column:slug;not null;uniqueIndex:idx_restaurants_slug"`
	Description   *string             `gorm:"column:description"`
	Category      *string             `gorm:"column:category"`
	ImageURL      *string             `gorm:"column:image_url"`
	CoverImageURL *string             `gorm:"column:cover_image_url"`
	Contacts      *types.Contacts     `gorm:"column:contacts;type:jsonb"`
	Address       *types.Address      `gorm:"column:address;type:jsonb"`
	Hours         types.Hours         `gorm:"column:hours;type:jsonb"`
	PriceRange    *types.PriceRange   `gorm:"column:price_range;type:jsonb"`
	Attributes    types.JSONMap       `gorm:"column:attributes;type:jsonb"`
	Media         types.JSONMap       `gorm:"column:media;type:jsonb"`
	MenuItems     types.MenuItems     `gorm:"column:menu_items;type:jsonb"`
	FeaturedDish  *types.FeaturedDish `gorm:"column:featured_dish;type:jsonb"`
	SocialLinks   types.StringMap     `gorm:"column:social_links;type:jsonb"`
	IsPublished   bool                `gorm:"column:is_published;not null;default:false"`
	Owner         *User               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}
