package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adventio/giveaway-api/internal/models"
)

const questionColumns = "id, door_id, sort_order, type, prompt, options, correct_answer, acceptable_answers, case_sensitive, created_at"

// QuestionRepository handles persistence for quiz question definitions.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository instantiates a question repository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListByDoor returns a door's questions in display order.
func (r *QuestionRepository) ListByDoor(ctx context.Context, doorID string) ([]models.QuizQuestion, error) {
	query := fmt.Sprintf("SELECT %s FROM quiz_questions WHERE door_id = $1 ORDER BY sort_order", questionColumns)
	var questions []models.QuizQuestion
	if err := r.db.SelectContext(ctx, &questions, query, doorID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// ListByCalendar returns all questions of a calendar's doors, keyed by door.
func (r *QuestionRepository) ListByCalendar(ctx context.Context, calendarID string) (map[string][]models.QuizQuestion, error) {
	const query = `SELECT q.id, q.door_id, q.sort_order, q.type, q.prompt, q.options, q.correct_answer, q.acceptable_answers, q.case_sensitive, q.created_at
FROM quiz_questions q
JOIN doors d ON d.id = q.door_id
WHERE d.calendar_id = $1
ORDER BY q.door_id, q.sort_order`
	var questions []models.QuizQuestion
	if err := r.db.SelectContext(ctx, &questions, query, calendarID); err != nil {
		return nil, fmt.Errorf("list calendar questions: %w", err)
	}
	byDoor := make(map[string][]models.QuizQuestion, len(questions))
	for _, q := range questions {
		byDoor[q.DoorID] = append(byDoor[q.DoorID], q)
	}
	return byDoor, nil
}

// ReplaceForDoor swaps a door's question set atomically. Existing answers
// reference questions by id, so replacement is only sensible before entries
// arrive; callers enforce that rule.
func (r *QuestionRepository) ReplaceForDoor(ctx context.Context, doorID string, questions []models.QuizQuestion) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace questions tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM quiz_questions WHERE door_id = $1`, doorID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	now := time.Now().UTC()
	const query = `INSERT INTO quiz_questions (id, door_id, sort_order, type, prompt, options, correct_answer, acceptable_answers, case_sensitive, created_at) VALUES (:id, :door_id, :sort_order, :type, :prompt, :options, :correct_answer, :acceptable_answers, :case_sensitive, :created_at)`
	for i := range questions {
		questions[i].DoorID = doorID
		questions[i].SortOrder = i + 1
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		questions[i].CreatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, &questions[i]); err != nil {
			return fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace questions tx: %w", err)
	}
	return nil
}

// CountEntriesForDoor reports how many entries reference the door. Used to
// refuse question replacement after participation started.
func (r *QuestionRepository) CountEntriesForDoor(ctx context.Context, doorID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM door_entries WHERE door_id = $1`, doorID); err != nil {
		return 0, fmt.Errorf("count door entries: %w", err)
	}
	return count, nil
}
