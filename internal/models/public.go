package models

import "time"

// PublicCalendar is the participant-facing projection of a calendar. Doors
// that have not opened yet expose their open date but no quiz content; no
// correct answer is ever serialized.
type PublicCalendar struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Slug                 string         `json:"slug"`
	Format               CalendarFormat `json:"format"`
	Status               CalendarStatus `json:"status"`
	StartDate            time.Time      `json:"start_date"`
	EndDate              time.Time      `json:"end_date"`
	DoorCount            int            `json:"door_count"`
	AllowMultipleEntries bool           `json:"allow_multiple_entries"`
	RequireEmail         bool           `json:"require_email"`
	RequireName          bool           `json:"require_name"`
	RequirePhone         bool           `json:"require_phone"`
	Doors                []PublicDoor   `json:"doors,omitempty"`
}

// PublicDoor is the participant-facing projection of a door.
type PublicDoor struct {
	ID         string           `json:"id"`
	DoorNumber int              `json:"door_number"`
	Title      string           `json:"title"`
	OpenDate   time.Time        `json:"open_date"`
	Open       bool             `json:"open"`
	HasWinner  bool             `json:"has_winner"`
	EnableQuiz bool             `json:"enable_quiz"`
	Product    *Product         `json:"product,omitempty"`
	Questions  []PublicQuestion `json:"questions,omitempty"`
}
