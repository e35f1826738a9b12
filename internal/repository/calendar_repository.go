package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adventio/giveaway-api/internal/models"
)

const calendarColumns = "id, title, slug, format, status, start_date, end_date, door_count, allow_multiple_entries, require_email, require_name, require_phone, default_quiz_enabled, default_quiz_passing_score, default_show_correct_answers, default_allow_retry, created_at, updated_at"

// CalendarRepository handles persistence for calendars.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository instantiates a calendar repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// List returns calendars matching provided filters.
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.Calendar, int, error) {
	base := "FROM calendars WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Format != "" {
		conditions = append(conditions, fmt.Sprintf("format = $%d", len(args)+1))
		args = append(args, filter.Format)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR slug ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"title":      true,
		"start_date": true,
		"end_date":   true,
		"status":     true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", calendarColumns, base, sortBy, order, size, offset)

	var calendars []models.Calendar
	if err := r.db.SelectContext(ctx, &calendars, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list calendars: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count calendars: %w", err)
	}

	return calendars, total, nil
}

// FindByID loads a calendar by identifier.
func (r *CalendarRepository) FindByID(ctx context.Context, id string) (*models.Calendar, error) {
	query := fmt.Sprintf("SELECT %s FROM calendars WHERE id = $1", calendarColumns)
	var calendar models.Calendar
	if err := r.db.GetContext(ctx, &calendar, query, id); err != nil {
		return nil, err
	}
	return &calendar, nil
}

// FindBySlug loads a calendar by its public slug.
func (r *CalendarRepository) FindBySlug(ctx context.Context, slug string) (*models.Calendar, error) {
	query := fmt.Sprintf("SELECT %s FROM calendars WHERE slug = $1", calendarColumns)
	var calendar models.Calendar
	if err := r.db.GetContext(ctx, &calendar, query, slug); err != nil {
		return nil, err
	}
	return &calendar, nil
}

const insertCalendarQuery = `INSERT INTO calendars (id, title, slug, format, status, start_date, end_date, door_count, allow_multiple_entries, require_email, require_name, require_phone, default_quiz_enabled, default_quiz_passing_score, default_show_correct_answers, default_allow_retry, created_at, updated_at) VALUES (:id, :title, :slug, :format, :status, :start_date, :end_date, :door_count, :allow_multiple_entries, :require_email, :require_name, :require_phone, :default_quiz_enabled, :default_quiz_passing_score, :default_show_correct_answers, :default_allow_retry, :created_at, :updated_at)`

// CreateWithDoors inserts a calendar and its initial door set atomically.
func (r *CalendarRepository) CreateWithDoors(ctx context.Context, calendar *models.Calendar, doors []models.Door) error {
	if calendar.ID == "" {
		calendar.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	calendar.CreatedAt = now
	calendar.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create calendar tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, insertCalendarQuery, calendar); err != nil {
		return fmt.Errorf("create calendar: %w", err)
	}

	for i := range doors {
		doors[i].CalendarID = calendar.ID
		if err = insertDoorTx(ctx, tx, &doors[i], now); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create calendar tx: %w", err)
	}
	return nil
}

// Update persists calendar fields.
func (r *CalendarRepository) Update(ctx context.Context, calendar *models.Calendar) error {
	calendar.UpdatedAt = time.Now().UTC()
	const query = `UPDATE calendars SET title = :title, slug = :slug, status = :status, start_date = :start_date, end_date = :end_date, door_count = :door_count, allow_multiple_entries = :allow_multiple_entries, require_email = :require_email, require_name = :require_name, require_phone = :require_phone, default_quiz_enabled = :default_quiz_enabled, default_quiz_passing_score = :default_quiz_passing_score, default_show_correct_answers = :default_show_correct_answers, default_allow_retry = :default_allow_retry, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, calendar); err != nil {
		return fmt.Errorf("update calendar: %w", err)
	}
	return nil
}

// UpdateStatus transitions the calendar lifecycle state.
func (r *CalendarRepository) UpdateStatus(ctx context.Context, id string, status models.CalendarStatus) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE calendars SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update calendar status: %w", err)
	}
	return nil
}

// Delete removes a calendar; doors, leads, entries and winners cascade.
func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete calendar: %w", err)
	}
	return nil
}

// Stats aggregates per-door participation counts for a calendar.
func (r *CalendarRepository) Stats(ctx context.Context, id string) (*models.CalendarStats, error) {
	const doorQuery = `SELECT d.id AS door_id, d.door_number,
COUNT(e.id) AS entries,
COUNT(e.id) FILTER (WHERE e.eligible_for_winner) AS eligible,
EXISTS (SELECT 1 FROM winners w WHERE w.door_id = d.id) AS has_winner
FROM doors d
LEFT JOIN door_entries e ON e.door_id = d.id
WHERE d.calendar_id = $1
GROUP BY d.id, d.door_number
ORDER BY d.door_number`

	var doors []models.DoorStats
	if err := r.db.SelectContext(ctx, &doors, doorQuery, id); err != nil {
		return nil, fmt.Errorf("calendar door stats: %w", err)
	}

	stats := &models.CalendarStats{CalendarID: id, Doors: doors}
	for _, d := range doors {
		stats.TotalEntries += d.Entries
		stats.EligibleEntries += d.Eligible
	}

	if err := r.db.GetContext(ctx, &stats.TotalLeads, `SELECT COUNT(*) FROM leads WHERE calendar_id = $1`, id); err != nil {
		return nil, fmt.Errorf("calendar lead count: %w", err)
	}

	return stats, nil
}
