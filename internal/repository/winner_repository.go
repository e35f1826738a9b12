package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adventio/giveaway-api/internal/models"
)

const winnerColumns = "id, door_id, lead_id, selected_at, selected_by, notified, created_at"

// WinnerRepository handles persistence for winners.
type WinnerRepository struct {
	db *sqlx.DB
}

// NewWinnerRepository instantiates a winner repository.
func NewWinnerRepository(db *sqlx.DB) *WinnerRepository {
	return &WinnerRepository{db: db}
}

// FindByDoor loads the winner of a door, if any.
func (r *WinnerRepository) FindByDoor(ctx context.Context, doorID string) (*models.Winner, error) {
	query := fmt.Sprintf("SELECT %s FROM winners WHERE door_id = $1", winnerColumns)
	var winner models.Winner
	if err := r.db.GetContext(ctx, &winner, query, doorID); err != nil {
		return nil, err
	}
	return &winner, nil
}

// EligibleLeadIDs returns the distinct leads holding an eligible entry for
// the door. A lead with several entries appears exactly once, so the draw
// cannot weight it higher.
func (r *WinnerRepository) EligibleLeadIDs(ctx context.Context, doorID string) ([]string, error) {
	const query = `SELECT DISTINCT lead_id FROM door_entries WHERE door_id = $1 AND eligible_for_winner = TRUE ORDER BY lead_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, doorID); err != nil {
		return nil, fmt.Errorf("list eligible leads: %w", err)
	}
	return ids, nil
}

// HasEligibleEntry checks whether a specific lead holds an eligible entry for
// the door. Used by the manual override path.
func (r *WinnerRepository) HasEligibleEntry(ctx context.Context, doorID, leadID string) (bool, error) {
	const query = `SELECT 1 FROM door_entries WHERE door_id = $1 AND lead_id = $2 AND eligible_for_winner = TRUE LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, doorID, leadID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check eligible entry: %w", err)
	}
	return true, nil
}

// Create inserts a winner. The winners door_id uniqueness constraint is the
// authoritative guard: of two concurrent draws exactly one insert succeeds,
// the other surfaces ErrWinnerExists.
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	if winner.ID == "" {
		winner.ID = uuid.NewString()
	}
	winner.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO winners (id, door_id, lead_id, selected_at, selected_by, notified, created_at) VALUES (:id, :door_id, :lead_id, :selected_at, :selected_by, :notified, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, winner); err != nil {
		if isUniqueViolation(err) {
			return ErrWinnerExists
		}
		return fmt.Errorf("create winner: %w", err)
	}
	return nil
}

// DeleteByDoor removes a door's winner so the door can be re-drawn.
func (r *WinnerRepository) DeleteByDoor(ctx context.Context, doorID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM winners WHERE door_id = $1`, doorID)
	if err != nil {
		return false, fmt.Errorf("delete winner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete winner result: %w", err)
	}
	return affected > 0, nil
}

// MarkNotified flips the notification flag on a door's winner.
func (r *WinnerRepository) MarkNotified(ctx context.Context, doorID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE winners SET notified = TRUE WHERE door_id = $1`, doorID)
	if err != nil {
		return fmt.Errorf("mark winner notified: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark winner notified result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByCalendar returns winners of a calendar joined with door and lead
// details, ordered by door number.
func (r *WinnerRepository) ListByCalendar(ctx context.Context, calendarID string) ([]models.WinnerDetail, error) {
	const query = `SELECT w.id, w.door_id, w.lead_id, w.selected_at, w.selected_by, w.notified, w.created_at,
d.door_number, d.title AS door_title, l.email AS lead_email, l.name AS lead_name
FROM winners w
JOIN doors d ON d.id = w.door_id
JOIN leads l ON l.id = w.lead_id
WHERE d.calendar_id = $1
ORDER BY d.door_number`
	var winners []models.WinnerDetail
	if err := r.db.SelectContext(ctx, &winners, query, calendarID); err != nil {
		return nil, fmt.Errorf("list winners: %w", err)
	}
	return winners, nil
}
