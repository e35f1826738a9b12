package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adventio/giveaway-api/internal/models"
	"github.com/adventio/giveaway-api/internal/repository"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
)

type mockCalendarRepo struct {
	items       map[string]*models.Calendar
	bySlug      map[string]*models.Calendar
	updated     []models.Calendar
	createdWith []models.Door
	statuses    map[string]models.CalendarStatus
	deleted     []string
	stats       *models.CalendarStats
}

func (m *mockCalendarRepo) List(ctx context.Context, filter models.CalendarFilter) ([]models.Calendar, int, error) {
	out := make([]models.Calendar, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCalendarRepo) FindByID(ctx context.Context, id string) (*models.Calendar, error) {
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCalendarRepo) FindBySlug(ctx context.Context, slug string) (*models.Calendar, error) {
	if c, ok := m.bySlug[slug]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCalendarRepo) CreateWithDoors(ctx context.Context, calendar *models.Calendar, doors []models.Door) error {
	if m.items == nil {
		m.items = make(map[string]*models.Calendar)
	}
	if calendar.ID == "" {
		calendar.ID = "generated"
	}
	cp := *calendar
	m.items[calendar.ID] = &cp
	m.createdWith = doors
	return nil
}

func (m *mockCalendarRepo) Update(ctx context.Context, calendar *models.Calendar) error {
	m.updated = append(m.updated, *calendar)
	cp := *calendar
	m.items[calendar.ID] = &cp
	return nil
}

func (m *mockCalendarRepo) UpdateStatus(ctx context.Context, id string, status models.CalendarStatus) error {
	if m.statuses == nil {
		m.statuses = make(map[string]models.CalendarStatus)
	}
	m.statuses[id] = status
	if c, ok := m.items[id]; ok {
		c.Status = status
	}
	return nil
}

func (m *mockCalendarRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCalendarRepo) Stats(ctx context.Context, id string) (*models.CalendarStats, error) {
	return m.stats, nil
}

type mockSyncDoorRepo struct {
	doors    []models.Door
	applied  []models.DoorChangeset
	applyErr error
}

func (m *mockSyncDoorRepo) ListByCalendar(ctx context.Context, calendarID string) ([]models.Door, error) {
	return m.doors, nil
}

func (m *mockSyncDoorRepo) ApplyChangeset(ctx context.Context, calendar *models.Calendar, cs models.DoorChangeset) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	m.applied = append(m.applied, cs)
	return nil
}

func doorBasedCalendar() *models.Calendar {
	return &models.Calendar{
		ID:           "c1",
		Title:        "December",
		Slug:         "december",
		Format:       models.FormatDoorBased,
		Status:       models.StatusDraft,
		StartDate:    day(2026, 12, 1),
		EndDate:      day(2026, 12, 3),
		DoorCount:    3,
		RequireEmail: true,
	}
}

func newTestCalendarService(repo *mockCalendarRepo, doors *mockSyncDoorRepo) *CalendarService {
	return NewCalendarService(repo, doors, nil, nil, nil, nil, time.Minute, nil, zap.NewNop())
}

func TestCalendarServiceCreateFromCount(t *testing.T) {
	repo := &mockCalendarRepo{}
	svc := newTestCalendarService(repo, &mockSyncDoorRepo{})

	count := 3
	calendar, err := svc.Create(context.Background(), CreateCalendarRequest{
		Title:     "December",
		Slug:      "december",
		Format:    models.FormatDoorBased,
		StartDate: day(2026, 12, 1),
		DoorCount: &count,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calendar.DoorCount)
	assert.Equal(t, day(2026, 12, 3), calendar.EndDate)
	assert.Equal(t, models.StatusDraft, calendar.Status)
	assert.True(t, calendar.RequireEmail)
	require.Len(t, repo.createdWith, 3)
	assert.Equal(t, day(2026, 12, 2), repo.createdWith[1].OpenDate)
}

func TestCalendarServiceCreateSpanWinsOverCount(t *testing.T) {
	repo := &mockCalendarRepo{}
	svc := newTestCalendarService(repo, &mockSyncDoorRepo{})

	count := 10
	end := day(2026, 12, 5)
	calendar, err := svc.Create(context.Background(), CreateCalendarRequest{
		Title:     "December",
		Slug:      "december",
		Format:    models.FormatDoorBased,
		StartDate: day(2026, 12, 1),
		EndDate:   &end,
		DoorCount: &count,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, calendar.DoorCount)
}

func TestCalendarServiceCreateInvalidRange(t *testing.T) {
	svc := newTestCalendarService(&mockCalendarRepo{}, &mockSyncDoorRepo{})

	end := day(2026, 11, 30)
	_, err := svc.Create(context.Background(), CreateCalendarRequest{
		Title:     "December",
		Slug:      "december",
		Format:    models.FormatDoorBased,
		StartDate: day(2026, 12, 1),
		EndDate:   &end,
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidDateRange)
}

func TestCalendarServiceCreateDoorCountOutOfRange(t *testing.T) {
	svc := newTestCalendarService(&mockCalendarRepo{}, &mockSyncDoorRepo{})

	count := 32
	_, err := svc.Create(context.Background(), CreateCalendarRequest{
		Title:     "December",
		Slug:      "december",
		Format:    models.FormatDoorBased,
		StartDate: day(2026, 12, 1),
		DoorCount: &count,
	})
	assert.ErrorIs(t, err, appErrors.ErrDoorCountOutOfRange)
}

func TestCalendarServiceCreateLandingHasNoDoors(t *testing.T) {
	repo := &mockCalendarRepo{}
	svc := newTestCalendarService(repo, &mockSyncDoorRepo{})

	calendar, err := svc.Create(context.Background(), CreateCalendarRequest{
		Title:     "Landing",
		Slug:      "landing",
		Format:    models.FormatLanding,
		StartDate: day(2026, 12, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calendar.DoorCount)
	assert.Empty(t, repo.createdWith)
}

func TestCalendarServiceReconcileMetadataOnly(t *testing.T) {
	repo := &mockCalendarRepo{items: map[string]*models.Calendar{"c1": doorBasedCalendar()}}
	doors := &mockSyncDoorRepo{}
	svc := newTestCalendarService(repo, doors)

	title := "December Giveaway"
	calendar, err := svc.Reconcile(context.Background(), "c1", UpdateCalendarRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "December Giveaway", calendar.Title)
	assert.Empty(t, doors.applied)
	require.Len(t, repo.updated, 1)
}

func TestCalendarServiceReconcileGrow(t *testing.T) {
	repo := &mockCalendarRepo{items: map[string]*models.Calendar{"c1": doorBasedCalendar()}}
	doors := &mockSyncDoorRepo{doors: []models.Door{
		{ID: "d1", DoorNumber: 1, OpenDate: day(2026, 12, 1)},
		{ID: "d2", DoorNumber: 2, OpenDate: day(2026, 12, 2)},
		{ID: "d3", DoorNumber: 3, OpenDate: day(2026, 12, 3)},
	}}
	svc := newTestCalendarService(repo, doors)

	count := 5
	calendar, err := svc.Reconcile(context.Background(), "c1", UpdateCalendarRequest{DoorCount: &count})
	require.NoError(t, err)
	assert.Equal(t, 5, calendar.DoorCount)
	assert.Equal(t, day(2026, 12, 5), calendar.EndDate)
	require.Len(t, doors.applied, 1)
	assert.Len(t, doors.applied[0].Create, 2)
}

func TestCalendarServiceReconcileShrinkBlocked(t *testing.T) {
	repo := &mockCalendarRepo{items: map[string]*models.Calendar{"c1": doorBasedCalendar()}}
	doors := &mockSyncDoorRepo{
		doors: []models.Door{
			{ID: "d1", DoorNumber: 1, OpenDate: day(2026, 12, 1)},
			{ID: "d2", DoorNumber: 2, OpenDate: day(2026, 12, 2)},
			{ID: "d3", DoorNumber: 3, OpenDate: day(2026, 12, 3)},
		},
		applyErr: repository.ErrDoorsHaveParticipation,
	}
	svc := newTestCalendarService(repo, doors)

	count := 2
	_, err := svc.Reconcile(context.Background(), "c1", UpdateCalendarRequest{DoorCount: &count})
	assert.ErrorIs(t, err, appErrors.ErrShrinkBlocked)
}

func TestCalendarServiceReconcileMovedStartKeepsCount(t *testing.T) {
	repo := &mockCalendarRepo{items: map[string]*models.Calendar{"c1": doorBasedCalendar()}}
	doors := &mockSyncDoorRepo{doors: []models.Door{
		{ID: "d1", DoorNumber: 1, OpenDate: day(2026, 12, 1)},
		{ID: "d2", DoorNumber: 2, OpenDate: day(2026, 12, 2)},
		{ID: "d3", DoorNumber: 3, OpenDate: day(2026, 12, 3)},
	}}
	svc := newTestCalendarService(repo, doors)

	start := day(2026, 12, 10)
	calendar, err := svc.Reconcile(context.Background(), "c1", UpdateCalendarRequest{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, 3, calendar.DoorCount)
	assert.Equal(t, day(2026, 12, 12), calendar.EndDate)
	require.Len(t, doors.applied, 1)
	assert.Len(t, doors.applied[0].Redate, 3)
}

func TestCalendarServiceReconcileCompletedRejectsResize(t *testing.T) {
	cal := doorBasedCalendar()
	cal.Status = models.StatusCompleted
	repo := &mockCalendarRepo{items: map[string]*models.Calendar{"c1": cal}}
	svc := newTestCalendarService(repo, &mockSyncDoorRepo{})

	count := 5
	_, err := svc.Reconcile(context.Background(), "c1", UpdateCalendarRequest{DoorCount: &count})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCalendarServiceReconcileNotFound(t *testing.T) {
	svc := newTestCalendarService(&mockCalendarRepo{}, &mockSyncDoorRepo{})

	_, err := svc.Reconcile(context.Background(), "missing", UpdateCalendarRequest{})
	assert.ErrorIs(t, err, appErrors.ErrCalendarNotFound)
}

func TestCalendarServiceStatusTransitions(t *testing.T) {
	repo := &mockCalendarRepo{items: map[string]*models.Calendar{"c1": doorBasedCalendar()}}
	svc := newTestCalendarService(repo, &mockSyncDoorRepo{})

	calendar, err := svc.UpdateStatus(context.Background(), "c1", models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, calendar.Status)

	_, err = svc.UpdateStatus(context.Background(), "c1", models.StatusDraft)
	require.Error(t, err)
}
