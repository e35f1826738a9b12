package models

import "time"

// Door is one unlockable unit of a calendar. Door numbers form a contiguous
// range starting at 1; open dates are derived from the calendar start date.
type Door struct {
	ID                 string    `db:"id" json:"id"`
	CalendarID         string    `db:"calendar_id" json:"calendar_id"`
	DoorNumber         int       `db:"door_number" json:"door_number"`
	Title              string    `db:"title" json:"title"`
	OpenDate           time.Time `db:"open_date" json:"open_date"`
	ProductID          *string   `db:"product_id" json:"product_id,omitempty"`
	EnableQuiz         bool      `db:"enable_quiz" json:"enable_quiz"`
	QuizPassingScore   int       `db:"quiz_passing_score" json:"quiz_passing_score"`
	ShowCorrectAnswers bool      `db:"show_correct_answers" json:"show_correct_answers"`
	AllowRetry         bool      `db:"allow_retry" json:"allow_retry"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// OpenAt reports whether the door accepts entries at the given instant.
func (d *Door) OpenAt(now time.Time) bool {
	return !now.Before(d.OpenDate)
}

// DoorChangeset is the minimal set of door operations that brings a calendar
// to its target shape. It is computed declaratively and applied as one
// transaction.
type DoorChangeset struct {
	Create []Door
	// Redate maps door IDs to re-derived open dates for surviving doors.
	Redate map[string]time.Time
	// DeleteIDs lists doors whose number exceeds the target count.
	DeleteIDs []string
}

// Empty reports whether applying the changeset would touch any door.
func (cs DoorChangeset) Empty() bool {
	return len(cs.Create) == 0 && len(cs.Redate) == 0 && len(cs.DeleteIDs) == 0
}
