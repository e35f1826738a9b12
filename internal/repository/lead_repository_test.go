package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adventio/giveaway-api/internal/models"
)

func leadRows(email, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "calendar_id", "email", "name", "phone", "terms_accepted", "privacy_policy_accepted", "marketing_consent", "consent_timestamp", "ip_address", "user_agent", "created_at", "updated_at"}).
		AddRow("l1", "c1", email, name, "", true, true, false, now, "", "", now, now)
}

func TestLeadRepositoryUpsertNormalizesEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeadRepository(db)

	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(sqlmock.AnyArg(), "c1", "lead@example.com", "Lead One", "", true, true, false, sqlmock.AnyArg(), "10.0.0.1", "agent", sqlmock.AnyArg()).
		WillReturnRows(leadRows("lead@example.com", "Lead One"))

	lead := &models.Lead{
		CalendarID:            "c1",
		Email:                 "  Lead@Example.COM ",
		Name:                  "Lead One",
		TermsAccepted:         true,
		PrivacyPolicyAccepted: true,
		IPAddress:             "10.0.0.1",
		UserAgent:             "agent",
	}
	require.NoError(t, repo.Upsert(context.Background(), lead))
	assert.Equal(t, "l1", lead.ID)
	assert.Equal(t, "lead@example.com", lead.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryUpsertKeepsExistingName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeadRepository(db)

	// The store resolves the merge; the returned row wins over the input.
	mock.ExpectQuery("INSERT INTO leads").
		WillReturnRows(leadRows("lead@example.com", "Original Name"))

	lead := &models.Lead{CalendarID: "c1", Email: "lead@example.com", Name: "Other Name"}
	require.NoError(t, repo.Upsert(context.Background(), lead))
	assert.Equal(t, "Original Name", lead.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryListByCalendar(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeadRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM leads WHERE calendar_id = $1 ORDER BY created_at LIMIT 50 OFFSET 0")).
		WithArgs("c1").
		WillReturnRows(leadRows("lead@example.com", ""))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM leads WHERE calendar_id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	leads, total, err := repo.ListByCalendar(context.Background(), "c1", models.LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryListByCalendarSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeadRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AND (email ILIKE $2 OR name ILIKE $2)")).
		WithArgs("c1", "%ole%").
		WillReturnRows(leadRows("ole@example.com", "Ole"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("c1", "%ole%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	leads, _, err := repo.ListByCalendar(context.Background(), "c1", models.LeadFilter{Search: "ole"})
	require.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
