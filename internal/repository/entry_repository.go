package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adventio/giveaway-api/internal/models"
)

const entryColumns = "id, lead_id, door_id, quiz_score, quiz_passed, eligible_for_winner, created_at"

// EntryRepository handles persistence for door entries and their answers.
type EntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository instantiates an entry repository.
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// FindByLeadAndDoor loads the entry for a (lead, door) pair.
func (r *EntryRepository) FindByLeadAndDoor(ctx context.Context, leadID, doorID string) (*models.DoorEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM door_entries WHERE lead_id = $1 AND door_id = $2", entryColumns)
	var entry models.DoorEntry
	if err := r.db.GetContext(ctx, &entry, query, leadID, doorID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateWithAnswers inserts the entry and its question answers atomically.
// The (lead_id, door_id) uniqueness constraint is the authoritative duplicate
// guard; a violation surfaces as ErrDuplicateEntry with nothing persisted.
func (r *EntryRepository) CreateWithAnswers(ctx context.Context, entry *models.DoorEntry, answers []models.QuestionAnswer) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create entry tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const entryQuery = `INSERT INTO door_entries (id, lead_id, door_id, quiz_score, quiz_passed, eligible_for_winner, created_at) VALUES (:id, :lead_id, :door_id, :quiz_score, :quiz_passed, :eligible_for_winner, :created_at)`
	if _, err = tx.NamedExecContext(ctx, entryQuery, entry); err != nil {
		if isUniqueViolation(err) {
			err = ErrDuplicateEntry
			return err
		}
		return fmt.Errorf("create entry: %w", err)
	}

	const answerQuery = `INSERT INTO question_answers (id, door_entry_id, question_id, answer, is_correct, created_at) VALUES (:id, :door_entry_id, :question_id, :answer, :is_correct, :created_at)`
	for i := range answers {
		answers[i].DoorEntryID = entry.ID
		if answers[i].ID == "" {
			answers[i].ID = uuid.NewString()
		}
		answers[i].CreatedAt = now
		if _, err = tx.NamedExecContext(ctx, answerQuery, &answers[i]); err != nil {
			return fmt.Errorf("create question answer: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create entry tx: %w", err)
	}
	return nil
}
