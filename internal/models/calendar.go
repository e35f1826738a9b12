package models

import "time"

// CalendarFormat distinguishes door-based campaigns from landing-only lead
// capture pages.
type CalendarFormat string

const (
	FormatDoorBased CalendarFormat = "DOOR_BASED"
	FormatLanding   CalendarFormat = "LANDING"
)

// CalendarStatus models the campaign lifecycle.
type CalendarStatus string

const (
	StatusDraft     CalendarStatus = "DRAFT"
	StatusScheduled CalendarStatus = "SCHEDULED"
	StatusActive    CalendarStatus = "ACTIVE"
	StatusCompleted CalendarStatus = "COMPLETED"
	StatusArchived  CalendarStatus = "ARCHIVED"
)

// MaxDoorCount caps door-based calendars at one door per day of a month.
const MaxDoorCount = 31

// Calendar is a time-boxed giveaway campaign. For DOOR_BASED calendars the
// date span and door count stay in lockstep: end - start + 1 day == doorCount.
type Calendar struct {
	ID                   string         `db:"id" json:"id"`
	Title                string         `db:"title" json:"title"`
	Slug                 string         `db:"slug" json:"slug"`
	Format               CalendarFormat `db:"format" json:"format"`
	Status               CalendarStatus `db:"status" json:"status"`
	StartDate            time.Time      `db:"start_date" json:"start_date"`
	EndDate              time.Time      `db:"end_date" json:"end_date"`
	DoorCount            int            `db:"door_count" json:"door_count"`
	AllowMultipleEntries bool           `db:"allow_multiple_entries" json:"allow_multiple_entries"`
	RequireEmail         bool           `db:"require_email" json:"require_email"`
	RequireName          bool           `db:"require_name" json:"require_name"`
	RequirePhone         bool           `db:"require_phone" json:"require_phone"`

	// Defaults copied onto doors created during a resync.
	DefaultQuizEnabled        bool `db:"default_quiz_enabled" json:"default_quiz_enabled"`
	DefaultQuizPassingScore   int  `db:"default_quiz_passing_score" json:"default_quiz_passing_score"`
	DefaultShowCorrectAnswers bool `db:"default_show_correct_answers" json:"default_show_correct_answers"`
	DefaultAllowRetry         bool `db:"default_allow_retry" json:"default_allow_retry"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AcceptsEntries reports whether the calendar is in a state that admits new
// participation.
func (c *Calendar) AcceptsEntries() bool {
	return c.Status == StatusActive || c.Status == StatusScheduled
}

// Resizable reports whether the operator may still reshape the door range.
func (c *Calendar) Resizable() bool {
	return c.Status == StatusDraft || c.Status == StatusScheduled || c.Status == StatusActive
}

// CalendarFilter defines filters supported by list endpoints.
type CalendarFilter struct {
	Status    CalendarStatus
	Format    CalendarFormat
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CalendarStats aggregates participation per calendar for the operator view.
type CalendarStats struct {
	CalendarID      string      `json:"calendar_id"`
	TotalLeads      int         `json:"total_leads"`
	TotalEntries    int         `json:"total_entries"`
	EligibleEntries int         `json:"eligible_entries"`
	Doors           []DoorStats `json:"doors"`
}

// DoorStats carries per-door participation counts.
type DoorStats struct {
	DoorID     string `db:"door_id" json:"door_id"`
	DoorNumber int    `db:"door_number" json:"door_number"`
	Entries    int    `db:"entries" json:"entries"`
	Eligible   int    `db:"eligible" json:"eligible"`
	HasWinner  bool   `db:"has_winner" json:"has_winner"`
}
