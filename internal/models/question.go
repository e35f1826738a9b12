package models

import (
	"time"

	"github.com/lib/pq"
)

// QuestionType enumerates the supported quiz question kinds. Multiple-choice
// answers are encoded as the option index, true/false as "true"/"false" and
// ratings as a numeric string.
type QuestionType string

const (
	QuestionText           QuestionType = "TEXT"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionRating         QuestionType = "RATING"
)

// QuizQuestion is a pre-generated question definition attached to a door.
// Question content arrives from an external source; this API only stores and
// scores against it.
type QuizQuestion struct {
	ID                string         `db:"id" json:"id"`
	DoorID            string         `db:"door_id" json:"door_id"`
	SortOrder         int            `db:"sort_order" json:"sort_order"`
	Type              QuestionType   `db:"type" json:"type"`
	Prompt            string         `db:"prompt" json:"prompt"`
	Options           pq.StringArray `db:"options" json:"options,omitempty"`
	CorrectAnswer     string         `db:"correct_answer" json:"correct_answer"`
	AcceptableAnswers pq.StringArray `db:"acceptable_answers" json:"acceptable_answers,omitempty"`
	CaseSensitive     bool           `db:"case_sensitive" json:"case_sensitive"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
}

// PublicQuestion is the participant-facing projection of a question. It never
// carries the correct answer.
type PublicQuestion struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Prompt  string       `json:"prompt"`
	Options []string     `json:"options,omitempty"`
}

// Public strips answer data from a question definition.
func (q *QuizQuestion) Public() PublicQuestion {
	return PublicQuestion{
		ID:      q.ID,
		Type:    q.Type,
		Prompt:  q.Prompt,
		Options: q.Options,
	}
}
