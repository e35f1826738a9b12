package models

import "time"

// Product is a prize that a door can reference.
type Product struct {
	ID          string    `db:"id" json:"id"`
	CalendarID  string    `db:"calendar_id" json:"calendar_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	Value       *float64  `db:"value" json:"value,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
