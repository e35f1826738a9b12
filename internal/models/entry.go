package models

import "time"

// DoorEntry is one participation event linking a lead to a door. Unique per
// (lead, door); when the calendar allows multiple entries, duplicates are
// accepted without a second persisted row.
type DoorEntry struct {
	ID                string    `db:"id" json:"id"`
	LeadID            string    `db:"lead_id" json:"lead_id"`
	DoorID            string    `db:"door_id" json:"door_id"`
	QuizScore         *float64  `db:"quiz_score" json:"quiz_score,omitempty"`
	QuizPassed        bool      `db:"quiz_passed" json:"quiz_passed"`
	EligibleForWinner bool      `db:"eligible_for_winner" json:"eligible_for_winner"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// QuestionAnswer records one submitted answer, created together with its
// entry and never mutated afterward.
type QuestionAnswer struct {
	ID          string    `db:"id" json:"id"`
	DoorEntryID string    `db:"door_entry_id" json:"door_entry_id"`
	QuestionID  string    `db:"question_id" json:"question_id"`
	Answer      string    `db:"answer" json:"answer"`
	IsCorrect   bool      `db:"is_correct" json:"is_correct"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
