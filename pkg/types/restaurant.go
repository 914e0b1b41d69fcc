package types

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// Contacts holds a restaurant's reachable endpoints, persisted as JSONB.
type Contacts struct {
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Website *string `json:"website,omitempty" validate:"omitempty,url"`
}

func (c Contacts) Value() (driver.Value, error) {
	return jsonbValue(c)
}

func (c *Contacts) Scan(value any) error {
	return jsonbScan(value, c, "contacts")
}

// Address is the postal location of a restaurant, persisted as JSONB.
type Address struct {
	Street  *string `json:"street,omitempty"`
	City    *string `json:"city,omitempty"`
	Zip     *string `json:"zip,omitempty"`
	Country *string `json:"country,omitempty"`
}

func (a Address) Value() (driver.Value, error) {
	return jsonbValue(a)
}

func (a *Address) Scan(value any) error {
	return jsonbScan(value, a, "address")
}

// DayHours describes one weekday's opening schedule. Times are HH:MM strings.
type DayHours struct {
	IsOpen     bool    `json:"isOpen"`
	Open       *string `json:"open,omitempty" validate:"omitempty,len=5,datetime=15:04"`
	Close      *string `json:"close,omitempty" validate:"omitempty,len=5,datetime=15:04"`
	BreakStart *string `json:"breakStart,omitempty" validate:"omitempty,len=5,datetime=15:04"`
	BreakEnd   *string `json:"breakEnd,omitempty" validate:"omitempty,len=5,datetime=15:04"`
}

// Hours maps weekday name to its schedule, persisted as JSONB.
type Hours map[string]DayHours

func (h Hours) Value() (driver.Value, error) {
	if h == nil {
		return "{}", nil
	}
	return jsonbValue(h)
}

func (h *Hours) Scan(value any) error {
	if value == nil {
		*h = nil
		return nil
	}
	result := make(Hours)
	if err := jsonbScan(value, &result, "hours"); err != nil {
		return err
	}
	*h = result
	return nil
}

// PriceRange is the expected spend band, persisted as JSONB.
type PriceRange struct {
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Currency string          `json:"currency"`
}

func (p PriceRange) Value() (driver.Value, error) {
	return jsonbValue(p)
}

func (p *PriceRange) Scan(value any) error {
	return jsonbScan(value, p, "price_range")
}

// MenuItem is a single dish entry. Price is free text ("¥1,200").
type MenuItem struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Price       string  `json:"price" validate:"required"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// MenuItems is the ordered dish list, persisted as JSONB.
type MenuItems []MenuItem

func (m MenuItems) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return jsonbValue(m)
}

func (m *MenuItems) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var result MenuItems
	if err := jsonbScan(value, &result, "menu_items"); err != nil {
		return err
	}
	*m = result
	return nil
}

// FeaturedDish highlights one item, optionally referencing a menu item id.
type FeaturedDish struct {
	MenuItemID  *string `json:"menuItemId,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Price       string  `json:"price" validate:"required"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

func (f FeaturedDish) Value() (driver.Value, error) {
	return jsonbValue(f)
}

func (f *FeaturedDish) Scan(value any) error {
	return jsonbScan(value, f, "featured_dish")
}
