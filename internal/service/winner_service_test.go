package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adventio/giveaway-api/internal/models"
	"github.com/adventio/giveaway-api/internal/repository"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
)

type mockWinnerRepo struct {
	existing  *models.Winner
	eligible  []string
	hasEntry  map[string]bool
	created   []models.Winner
	createErr error
	deleted   bool
	notified  []string
	listed    []models.WinnerDetail
}

func (m *mockWinnerRepo) FindByDoor(ctx context.Context, doorID string) (*models.Winner, error) {
	if m.existing != nil {
		cp := *m.existing
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockWinnerRepo) EligibleLeadIDs(ctx context.Context, doorID string) ([]string, error) {
	return m.eligible, nil
}

func (m *mockWinnerRepo) HasEligibleEntry(ctx context.Context, doorID, leadID string) (bool, error) {
	return m.hasEntry[leadID], nil
}

func (m *mockWinnerRepo) Create(ctx context.Context, winner *models.Winner) error {
	if m.createErr != nil {
		return m.createErr
	}
	if winner.ID == "" {
		winner.ID = "w1"
	}
	m.created = append(m.created, *winner)
	return nil
}

func (m *mockWinnerRepo) DeleteByDoor(ctx context.Context, doorID string) (bool, error) {
	return m.deleted, nil
}

func (m *mockWinnerRepo) MarkNotified(ctx context.Context, doorID string) error {
	m.notified = append(m.notified, doorID)
	return nil
}

func (m *mockWinnerRepo) ListByCalendar(ctx context.Context, calendarID string) ([]models.WinnerDetail, error) {
	return m.listed, nil
}

func newTestWinnerService(doors *mockEntryDoorRepo, winners *mockWinnerRepo) *WinnerService {
	return NewWinnerService(doors, winners, nil, nil, zap.NewNop())
}

func winnerDoor() *mockEntryDoorRepo {
	return &mockEntryDoorRepo{door: &models.Door{ID: "d1", CalendarID: "c1", DoorNumber: 1}}
}

func TestWinnerDrawPicksRandomEligibleLead(t *testing.T) {
	winners := &mockWinnerRepo{eligible: []string{"l1", "l2", "l3"}}
	svc := newTestWinnerService(winnerDoor(), winners)
	svc.intn = func(n int) int {
		require.Equal(t, 3, n)
		return 1
	}

	winner, err := svc.Draw(context.Background(), "d1", "", "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, "l2", winner.LeadID)
	assert.Equal(t, "ops@example.com", winner.SelectedBy)
	require.Len(t, winners.created, 1)
}

func TestWinnerDrawNoEligibleEntries(t *testing.T) {
	svc := newTestWinnerService(winnerDoor(), &mockWinnerRepo{})

	_, err := svc.Draw(context.Background(), "d1", "", "system")
	assert.ErrorIs(t, err, appErrors.ErrNoEligibleEntries)
}

func TestWinnerDrawAlreadyExists(t *testing.T) {
	winners := &mockWinnerRepo{existing: &models.Winner{ID: "w0", DoorID: "d1"}}
	svc := newTestWinnerService(winnerDoor(), winners)

	_, err := svc.Draw(context.Background(), "d1", "", "system")
	assert.ErrorIs(t, err, appErrors.ErrWinnerAlreadyExists)
}

func TestWinnerDrawRaceMapsToAlreadyExists(t *testing.T) {
	winners := &mockWinnerRepo{eligible: []string{"l1"}, createErr: repository.ErrWinnerExists}
	svc := newTestWinnerService(winnerDoor(), winners)

	_, err := svc.Draw(context.Background(), "d1", "", "system")
	assert.ErrorIs(t, err, appErrors.ErrWinnerAlreadyExists)
}

func TestWinnerDrawExplicitLead(t *testing.T) {
	winners := &mockWinnerRepo{hasEntry: map[string]bool{"l7": true}}
	svc := newTestWinnerService(winnerDoor(), winners)

	winner, err := svc.Draw(context.Background(), "d1", "l7", "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, "l7", winner.LeadID)
}

func TestWinnerDrawExplicitLeadNotEligible(t *testing.T) {
	svc := newTestWinnerService(winnerDoor(), &mockWinnerRepo{hasEntry: map[string]bool{}})

	_, err := svc.Draw(context.Background(), "d1", "l9", "ops@example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWinnerDrawDoorNotFound(t *testing.T) {
	svc := newTestWinnerService(&mockEntryDoorRepo{}, &mockWinnerRepo{})

	_, err := svc.Draw(context.Background(), "missing", "", "system")
	assert.ErrorIs(t, err, appErrors.ErrDoorNotFound)
}

func TestWinnerRemove(t *testing.T) {
	winners := &mockWinnerRepo{deleted: true}
	svc := newTestWinnerService(winnerDoor(), winners)

	require.NoError(t, svc.Remove(context.Background(), "d1"))
}

func TestWinnerRemoveNoWinner(t *testing.T) {
	svc := newTestWinnerService(winnerDoor(), &mockWinnerRepo{deleted: false})

	err := svc.Remove(context.Background(), "d1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestWinnerMarkNotified(t *testing.T) {
	winners := &mockWinnerRepo{}
	svc := newTestWinnerService(winnerDoor(), winners)

	require.NoError(t, svc.MarkNotified(context.Background(), "d1"))
	assert.Equal(t, []string{"d1"}, winners.notified)
}
