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

const leadColumns = "id, calendar_id, email, name, phone, terms_accepted, privacy_policy_accepted, marketing_consent, consent_timestamp, ip_address, user_agent, created_at, updated_at"

// LeadRepository handles persistence for leads.
type LeadRepository struct {
	db *sqlx.DB
}

// NewLeadRepository instantiates a lead repository.
func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Upsert inserts or merges a lead keyed on (calendar_id, email) in a single
// statement, so concurrent first-time submissions from the same email cannot
// race. Name and phone are only filled when previously empty; consent flags
// and timestamp always take the submitted values. The struct is refreshed
// with the persisted row.
func (r *LeadRepository) Upsert(ctx context.Context, lead *models.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	query := fmt.Sprintf(`INSERT INTO leads (id, calendar_id, email, name, phone, terms_accepted, privacy_policy_accepted, marketing_consent, consent_timestamp, ip_address, user_agent, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
ON CONFLICT (calendar_id, email) DO UPDATE SET
name = CASE WHEN leads.name = '' THEN EXCLUDED.name ELSE leads.name END,
phone = CASE WHEN leads.phone = '' THEN EXCLUDED.phone ELSE leads.phone END,
terms_accepted = EXCLUDED.terms_accepted,
privacy_policy_accepted = EXCLUDED.privacy_policy_accepted,
marketing_consent = EXCLUDED.marketing_consent,
consent_timestamp = EXCLUDED.consent_timestamp,
ip_address = EXCLUDED.ip_address,
user_agent = EXCLUDED.user_agent,
updated_at = EXCLUDED.updated_at
RETURNING %s`, leadColumns)

	if err := r.db.GetContext(ctx, lead, query,
		lead.ID,
		lead.CalendarID,
		strings.ToLower(strings.TrimSpace(lead.Email)),
		lead.Name,
		lead.Phone,
		lead.TermsAccepted,
		lead.PrivacyPolicyAccepted,
		lead.MarketingConsent,
		lead.ConsentTimestamp,
		lead.IPAddress,
		lead.UserAgent,
		now,
	); err != nil {
		return fmt.Errorf("upsert lead: %w", err)
	}
	return nil
}

// FindByID loads a lead by identifier.
func (r *LeadRepository) FindByID(ctx context.Context, id string) (*models.Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM leads WHERE id = $1", leadColumns)
	var lead models.Lead
	if err := r.db.GetContext(ctx, &lead, query, id); err != nil {
		return nil, err
	}
	return &lead, nil
}

// ListByCalendar returns leads of a calendar with pagination.
func (r *LeadRepository) ListByCalendar(ctx context.Context, calendarID string, filter models.LeadFilter) ([]models.Lead, int, error) {
	base := "FROM leads WHERE calendar_id = $1"
	args := []interface{}{calendarID}

	if filter.Search != "" {
		base += fmt.Sprintf(" AND (email ILIKE $%d OR name ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at LIMIT %d OFFSET %d", leadColumns, base, size, offset)

	var leads []models.Lead
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	return leads, total, nil
}

// AllByCalendar returns every lead of a calendar without pagination, for
// exports.
func (r *LeadRepository) AllByCalendar(ctx context.Context, calendarID string) ([]models.Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM leads WHERE calendar_id = $1 ORDER BY created_at", leadColumns)

	var leads []models.Lead
	if err := r.db.SelectContext(ctx, &leads, query, calendarID); err != nil {
		return nil, fmt.Errorf("export leads: %w", err)
	}
	return leads, nil
}
