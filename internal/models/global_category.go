package models

import "time"

// GlobalCategory is a platform-wide cuisine tag that restaurants link to.
// Slugs are unique across the table.
type GlobalCategory struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Emoji     string    `db:"emoji" json:"emoji"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	LinkCount int       `db:"link_count" json:"link_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
