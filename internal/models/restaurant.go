package models

import "time"

// Restaurant is a storefront listed on the platform.
type Restaurant struct {
	ID          string     `db:"id" json:"id"`
	OwnerID     *string    `db:"owner_id" json:"owner_id,omitempty"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	Image       *string    `db:"image" json:"image,omitempty"`
	Latitude    float64    `db:"latitude" json:"latitude"`
	Longitude   float64    `db:"longitude" json:"longitude"`
	Rating      float64    `db:"rating" json:"rating"`
	ViewCount   int        `db:"view_count" json:"view_count"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	Menu       []MenuItem `db:"-" json:"menu,omitempty"`
	Categories []Category `db:"-" json:"categories,omitempty"`
}

// MenuItem is a purchasable dish belonging to a menu category.
type MenuItem struct {
	ID          string    `db:"id" json:"id"`
	CategoryID  string    `db:"category_id" json:"category_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Price       float64   `db:"price" json:"price"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RestaurantFilter captures listing criteria for restaurants.
type RestaurantFilter struct {
	Search     string
	CategoryID string
	IsActive   *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
