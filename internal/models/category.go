package models

import "time"

// Category groups menu items within a single restaurant.
type Category struct {
	ID           string    `db:"id" json:"id"`
	RestaurantID string    `db:"restaurant_id" json:"restaurant_id"`
	Name         string    `db:"name" json:"name"`
	Emoji        string    `db:"emoji" json:"emoji"`
	SortOrder    int       `db:"sort_order" json:"sort_order"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	MenuItems []MenuItem `db:"-" json:"menu_items,omitempty"`
}
