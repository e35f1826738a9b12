package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adventio/giveaway-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDoorRepositoryListByCalendar(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDoorRepository(db)

	rows := sqlmock.NewRows([]string{"id", "calendar_id", "door_number", "title", "open_date", "product_id", "enable_quiz", "quiz_passing_score", "show_correct_answers", "allow_retry", "created_at", "updated_at"}).
		AddRow("d1", "c1", 1, "Door 1", time.Now(), nil, false, 0, false, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, calendar_id, door_number, title, open_date, product_id, enable_quiz, quiz_passing_score, show_correct_answers, allow_retry, created_at, updated_at FROM doors WHERE calendar_id = $1 ORDER BY door_number")).
		WithArgs("c1").
		WillReturnRows(rows)

	doors, err := repo.ListByCalendar(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, doors, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoorRepositoryApplyChangesetGuardTrips(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDoorRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM doors WHERE id = ANY($1) FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("d3"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM door_entries WHERE door_id = ANY($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	calendar := &models.Calendar{ID: "c1"}
	err := repo.ApplyChangeset(context.Background(), calendar, models.DoorChangeset{
		DeleteIDs: []string{"d3"},
	})
	assert.ErrorIs(t, err, ErrDoorsHaveParticipation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoorRepositoryApplyChangesetWinnerGuardTrips(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDoorRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM doors WHERE id = ANY($1) FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("d3"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM door_entries WHERE door_id = ANY($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM winners WHERE door_id = ANY($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.ApplyChangeset(context.Background(), &models.Calendar{ID: "c1"}, models.DoorChangeset{
		DeleteIDs: []string{"d3"},
	})
	assert.ErrorIs(t, err, ErrDoorsHaveParticipation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoorRepositoryApplyChangesetFull(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDoorRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM doors WHERE id = ANY($1) FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("d3"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM door_entries WHERE door_id = ANY($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM winners WHERE door_id = ANY($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM doors WHERE id = ANY($1)")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO doors").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE doors SET open_date = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("d1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE calendars SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	calendar := &models.Calendar{ID: "c1", DoorCount: 2}
	start := time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC)
	err := repo.ApplyChangeset(context.Background(), calendar, models.DoorChangeset{
		Create:    []models.Door{{DoorNumber: 2, Title: "Door 2", OpenDate: start.AddDate(0, 0, 1)}},
		Redate:    map[string]time.Time{"d1": start},
		DeleteIDs: []string{"d3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", calendar.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoorRepositoryApplyChangesetEmptyStillUpdatesCalendar(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDoorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE calendars SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ApplyChangeset(context.Background(), &models.Calendar{ID: "c1"}, models.DoorChangeset{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
