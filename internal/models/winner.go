package models

import "time"

// Winner is the single drawn lead for a door. At most one winner per door is
// enforced by a store-level uniqueness constraint; rows are immutable apart
// from the notified flag.
type Winner struct {
	ID         string    `db:"id" json:"id"`
	DoorID     string    `db:"door_id" json:"door_id"`
	LeadID     string    `db:"lead_id" json:"lead_id"`
	SelectedAt time.Time `db:"selected_at" json:"selected_at"`
	SelectedBy string    `db:"selected_by" json:"selected_by"`
	Notified   bool      `db:"notified" json:"notified"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// WinnerDetail joins a winner with its door and lead for operator listings.
type WinnerDetail struct {
	Winner
	DoorNumber int    `db:"door_number" json:"door_number"`
	DoorTitle  string `db:"door_title" json:"door_title"`
	LeadEmail  string `db:"lead_email" json:"lead_email"`
	LeadName   string `db:"lead_name" json:"lead_name"`
}
