package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adventio/giveaway-api/internal/models"
)

func TestWinnerRepositoryEligibleLeadIDsDistinct(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWinnerRepository(db)

	rows := sqlmock.NewRows([]string{"lead_id"}).AddRow("l1").AddRow("l2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT lead_id FROM door_entries WHERE door_id = $1 AND eligible_for_winner = TRUE ORDER BY lead_id")).
		WithArgs("d1").
		WillReturnRows(rows)

	ids, err := repo.EligibleLeadIDs(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWinnerRepositoryHasEligibleEntry(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWinnerRepository(db)

	mock.ExpectQuery("SELECT 1 FROM door_entries").
		WithArgs("d1", "l1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	ok, err := repo.HasEligibleEntry(context.Background(), "d1", "l1")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery("SELECT 1 FROM door_entries").
		WithArgs("d1", "l2").
		WillReturnError(sql.ErrNoRows)

	ok, err = repo.HasEligibleEntry(context.Background(), "d1", "l2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWinnerRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWinnerRepository(db)

	mock.ExpectExec("INSERT INTO winners").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Winner{DoorID: "d1", LeadID: "l1", SelectedAt: time.Now()})
	assert.ErrorIs(t, err, ErrWinnerExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWinnerRepositoryDeleteByDoor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWinnerRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM winners WHERE door_id = $1")).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteByDoor(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM winners WHERE door_id = $1")).
		WithArgs("d2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err = repo.DeleteByDoor(context.Background(), "d2")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWinnerRepositoryMarkNotifiedMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWinnerRepository(db)

	mock.ExpectExec("UPDATE winners SET notified = TRUE").
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkNotified(context.Background(), "d1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
