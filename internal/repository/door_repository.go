package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/adventio/giveaway-api/internal/models"
)

const doorColumns = "id, calendar_id, door_number, title, open_date, product_id, enable_quiz, quiz_passing_score, show_correct_answers, allow_retry, created_at, updated_at"

// DoorRepository handles persistence for doors.
type DoorRepository struct {
	db *sqlx.DB
}

// NewDoorRepository instantiates a door repository.
func NewDoorRepository(db *sqlx.DB) *DoorRepository {
	return &DoorRepository{db: db}
}

// ListByCalendar returns all doors of a calendar ordered by door number.
func (r *DoorRepository) ListByCalendar(ctx context.Context, calendarID string) ([]models.Door, error) {
	query := fmt.Sprintf("SELECT %s FROM doors WHERE calendar_id = $1 ORDER BY door_number", doorColumns)
	var doors []models.Door
	if err := r.db.SelectContext(ctx, &doors, query, calendarID); err != nil {
		return nil, fmt.Errorf("list doors: %w", err)
	}
	return doors, nil
}

// FindByID loads a door by identifier.
func (r *DoorRepository) FindByID(ctx context.Context, id string) (*models.Door, error) {
	query := fmt.Sprintf("SELECT %s FROM doors WHERE id = $1", doorColumns)
	var door models.Door
	if err := r.db.GetContext(ctx, &door, query, id); err != nil {
		return nil, err
	}
	return &door, nil
}

// Update persists door configuration (title, product, quiz settings).
func (r *DoorRepository) Update(ctx context.Context, door *models.Door) error {
	door.UpdatedAt = time.Now().UTC()
	const query = `UPDATE doors SET title = :title, product_id = :product_id, enable_quiz = :enable_quiz, quiz_passing_score = :quiz_passing_score, show_correct_answers = :show_correct_answers, allow_retry = :allow_retry, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, door); err != nil {
		return fmt.Errorf("update door: %w", err)
	}
	return nil
}

// ApplyChangeset brings the calendar's door set to its target shape in one
// transaction. Doors slated for deletion are locked with FOR UPDATE before
// the participation check; the row lock conflicts with the key-share lock an
// entry insert takes for its foreign key, so a concurrent submission cannot
// land on a door between the guard and the delete. Returns
// ErrDoorsHaveParticipation without touching anything when the guard trips.
func (r *DoorRepository) ApplyChangeset(ctx context.Context, calendar *models.Calendar, cs models.DoorChangeset) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin door changeset tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if len(cs.DeleteIDs) > 0 {
		var locked []string
		if err = tx.SelectContext(ctx, &locked, `SELECT id FROM doors WHERE id = ANY($1) FOR UPDATE`, pq.Array(cs.DeleteIDs)); err != nil {
			return fmt.Errorf("lock doomed doors: %w", err)
		}
		var entries int
		if err = tx.GetContext(ctx, &entries, `SELECT COUNT(*) FROM door_entries WHERE door_id = ANY($1)`, pq.Array(cs.DeleteIDs)); err != nil {
			return fmt.Errorf("count entries on doomed doors: %w", err)
		}
		var winners int
		if err = tx.GetContext(ctx, &winners, `SELECT COUNT(*) FROM winners WHERE door_id = ANY($1)`, pq.Array(cs.DeleteIDs)); err != nil {
			return fmt.Errorf("count winners on doomed doors: %w", err)
		}
		if entries > 0 || winners > 0 {
			err = ErrDoorsHaveParticipation
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM doors WHERE id = ANY($1)`, pq.Array(cs.DeleteIDs)); err != nil {
			return fmt.Errorf("delete doors: %w", err)
		}
	}

	now := time.Now().UTC()

	for i := range cs.Create {
		cs.Create[i].CalendarID = calendar.ID
		if err = insertDoorTx(ctx, tx, &cs.Create[i], now); err != nil {
			return err
		}
	}

	for id, openDate := range cs.Redate {
		if _, err = tx.ExecContext(ctx, `UPDATE doors SET open_date = $2, updated_at = $3 WHERE id = $1`, id, openDate, now); err != nil {
			return fmt.Errorf("redate door: %w", err)
		}
	}

	calendar.UpdatedAt = now
	const calendarQuery = `UPDATE calendars SET title = :title, slug = :slug, start_date = :start_date, end_date = :end_date, door_count = :door_count, allow_multiple_entries = :allow_multiple_entries, require_email = :require_email, require_name = :require_name, require_phone = :require_phone, default_quiz_enabled = :default_quiz_enabled, default_quiz_passing_score = :default_quiz_passing_score, default_show_correct_answers = :default_show_correct_answers, default_allow_retry = :default_allow_retry, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, calendarQuery, calendar); err != nil {
		return fmt.Errorf("update calendar during resync: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit door changeset tx: %w", err)
	}
	return nil
}

func insertDoorTx(ctx context.Context, tx *sqlx.Tx, door *models.Door, now time.Time) error {
	if door.ID == "" {
		door.ID = uuid.NewString()
	}
	door.CreatedAt = now
	door.UpdatedAt = now
	const query = `INSERT INTO doors (id, calendar_id, door_number, title, open_date, product_id, enable_quiz, quiz_passing_score, show_correct_answers, allow_retry, created_at, updated_at) VALUES (:id, :calendar_id, :door_number, :title, :open_date, :product_id, :enable_quiz, :quiz_passing_score, :show_correct_answers, :allow_retry, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, door); err != nil {
		return fmt.Errorf("insert door %d: %w", door.DoorNumber, err)
	}
	return nil
}
