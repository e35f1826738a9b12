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

type mockEntryCalendarRepo struct {
	calendar *models.Calendar
}

func (m *mockEntryCalendarRepo) FindByID(ctx context.Context, id string) (*models.Calendar, error) {
	if m.calendar != nil && m.calendar.ID == id {
		cp := *m.calendar
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockEntryDoorRepo struct {
	door *models.Door
}

func (m *mockEntryDoorRepo) FindByID(ctx context.Context, id string) (*models.Door, error) {
	if m.door != nil && m.door.ID == id {
		cp := *m.door
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockEntryQuestionRepo struct {
	questions []models.QuizQuestion
}

func (m *mockEntryQuestionRepo) ListByDoor(ctx context.Context, doorID string) ([]models.QuizQuestion, error) {
	return m.questions, nil
}

type mockEntryLeadRepo struct {
	upserted []models.Lead
}

func (m *mockEntryLeadRepo) Upsert(ctx context.Context, lead *models.Lead) error {
	if lead.ID == "" {
		lead.ID = "lead-1"
	}
	m.upserted = append(m.upserted, *lead)
	return nil
}

type mockEntryRepo struct {
	existing  *models.DoorEntry
	created   []models.DoorEntry
	answers   [][]models.QuestionAnswer
	createErr error
}

func (m *mockEntryRepo) FindByLeadAndDoor(ctx context.Context, leadID, doorID string) (*models.DoorEntry, error) {
	if m.existing != nil {
		cp := *m.existing
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEntryRepo) CreateWithAnswers(ctx context.Context, entry *models.DoorEntry, answers []models.QuestionAnswer) error {
	if m.createErr != nil {
		return m.createErr
	}
	if entry.ID == "" {
		entry.ID = "entry-1"
	}
	m.created = append(m.created, *entry)
	m.answers = append(m.answers, answers)
	return nil
}

type mockEntryWinnerRepo struct {
	winner *models.Winner
}

func (m *mockEntryWinnerRepo) FindByDoor(ctx context.Context, doorID string) (*models.Winner, error) {
	if m.winner != nil {
		cp := *m.winner
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type entryFixture struct {
	calendars *mockEntryCalendarRepo
	doors     *mockEntryDoorRepo
	questions *mockEntryQuestionRepo
	leads     *mockEntryLeadRepo
	entries   *mockEntryRepo
	winners   *mockEntryWinnerRepo
	svc       *EntryService
}

func newEntryFixture() *entryFixture {
	f := &entryFixture{
		calendars: &mockEntryCalendarRepo{calendar: &models.Calendar{
			ID:           "c1",
			Status:       models.StatusActive,
			Format:       models.FormatDoorBased,
			RequireEmail: true,
		}},
		doors: &mockEntryDoorRepo{door: &models.Door{
			ID:         "d1",
			CalendarID: "c1",
			DoorNumber: 1,
			OpenDate:   day(2026, 11, 1),
		}},
		questions: &mockEntryQuestionRepo{},
		leads:     &mockEntryLeadRepo{},
		entries:   &mockEntryRepo{},
		winners:   &mockEntryWinnerRepo{},
	}
	f.svc = NewEntryService(f.calendars, f.doors, f.questions, f.leads, f.entries, f.winners, nil, zap.NewNop())
	f.svc.now = func() time.Time { return day(2026, 11, 15) }
	return f
}

func validEntry() SubmitEntryRequest {
	return SubmitEntryRequest{
		CalendarID:    "c1",
		DoorID:        "d1",
		Email:         "Lead@Example.com",
		TermsAccepted: true,
		PrivacyPolicy: true,
	}
}

func TestEntrySubmitAccepted(t *testing.T) {
	f := newEntryFixture()

	result, err := f.svc.Submit(context.Background(), validEntry())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "entry-1", result.EntryID)
	assert.Nil(t, result.Quiz)

	require.Len(t, f.leads.upserted, 1)
	assert.Equal(t, "lead@example.com", f.leads.upserted[0].Email)
	require.Len(t, f.entries.created, 1)
	assert.True(t, f.entries.created[0].EligibleForWinner)
	assert.Nil(t, f.entries.created[0].QuizScore)
}

func TestEntrySubmitMissingEmail(t *testing.T) {
	f := newEntryFixture()
	req := validEntry()
	req.Email = "   "

	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrMissingEmail)
	assert.Empty(t, f.leads.upserted)
}

func TestEntrySubmitConsentChecksPrecedeCalendarLookup(t *testing.T) {
	f := newEntryFixture()
	req := validEntry()
	req.CalendarID = "missing"
	req.TermsAccepted = false

	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrTermsNotAccepted)

	req.TermsAccepted = true
	req.PrivacyPolicy = false
	_, err = f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrPrivacyNotAccepted)
}

func TestEntrySubmitCalendarNotFound(t *testing.T) {
	f := newEntryFixture()
	req := validEntry()
	req.CalendarID = "missing"

	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrCalendarNotFound)
}

func TestEntrySubmitCalendarNotActive(t *testing.T) {
	f := newEntryFixture()
	f.calendars.calendar.Status = models.StatusCompleted

	_, err := f.svc.Submit(context.Background(), validEntry())
	assert.ErrorIs(t, err, appErrors.ErrCalendarNotActive)
}

func TestEntrySubmitScheduledCalendarAccepts(t *testing.T) {
	f := newEntryFixture()
	f.calendars.calendar.Status = models.StatusScheduled

	result, err := f.svc.Submit(context.Background(), validEntry())
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestEntrySubmitRequiredFields(t *testing.T) {
	f := newEntryFixture()
	f.calendars.calendar.RequireName = true

	_, err := f.svc.Submit(context.Background(), validEntry())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req := validEntry()
	req.Name = "Lead One"
	_, err = f.svc.Submit(context.Background(), req)
	assert.NoError(t, err)
}

func TestEntrySubmitDoorFromOtherCalendar(t *testing.T) {
	f := newEntryFixture()
	f.doors.door.CalendarID = "c2"

	_, err := f.svc.Submit(context.Background(), validEntry())
	assert.ErrorIs(t, err, appErrors.ErrDoorNotFound)
}

func TestEntrySubmitDoorNotYetOpen(t *testing.T) {
	f := newEntryFixture()
	f.doors.door.OpenDate = day(2030, 12, 24)

	_, err := f.svc.Submit(context.Background(), validEntry())
	assert.ErrorIs(t, err, appErrors.ErrDoorNotYetOpen)
}

func TestEntrySubmitWinnerAlreadySelected(t *testing.T) {
	f := newEntryFixture()
	f.winners.winner = &models.Winner{ID: "w1", DoorID: "d1"}

	_, err := f.svc.Submit(context.Background(), validEntry())
	assert.ErrorIs(t, err, appErrors.ErrWinnerAlreadySelected)
}

func TestEntrySubmitQuizAnswersRequired(t *testing.T) {
	f := newEntryFixture()
	f.doors.door.EnableQuiz = true
	f.questions.questions = []models.QuizQuestion{
		{ID: "q1", Type: models.QuestionText, CorrectAnswer: "a"},
	}

	_, err := f.svc.Submit(context.Background(), validEntry())
	assert.ErrorIs(t, err, appErrors.ErrQuizAnswersRequired)
}

func TestEntrySubmitQuizEnabledWithoutQuestions(t *testing.T) {
	f := newEntryFixture()
	f.doors.door.EnableQuiz = true

	result, err := f.svc.Submit(context.Background(), validEntry())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.Quiz)
}

func TestEntrySubmitQuizFailedNoRetry(t *testing.T) {
	f := newEntryFixture()
	f.doors.door.EnableQuiz = true
	f.doors.door.QuizPassingScore = 100
	f.doors.door.AllowRetry = false
	f.questions.questions = []models.QuizQuestion{
		{ID: "q1", Type: models.QuestionText, CorrectAnswer: "right"},
	}

	req := validEntry()
	req.Answers = []SubmittedAnswer{{QuestionID: "q1", Answer: "wrong"}}

	result, err := f.svc.Submit(context.Background(), req)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, appErrors.ErrQuizFailedNoRetry)

	var quizErr *QuizFailedError
	require.ErrorAs(t, err, &quizErr)
	require.NotNil(t, quizErr.Result.Quiz)
	assert.Equal(t, 0.0, quizErr.Result.Quiz.Score)
	assert.False(t, quizErr.Result.Quiz.Passed)
	// Correct answers stay hidden unless the door discloses them.
	assert.Empty(t, quizErr.Result.Quiz.Results)
	assert.Empty(t, f.entries.created)
}

func TestEntrySubmitQuizFailedNoRetryShowsAnswersWhenConfigured(t *testing.T) {
	f := newEntryFixture()
	f.doors.door.EnableQuiz = true
	f.doors.door.QuizPassingScore = 100
	f.doors.door.AllowRetry = false
	f.doors.door.ShowCorrectAnswers = true
	f.questions.questions = []models.QuizQuestion{
		{ID: "q1", Type: models.QuestionText, CorrectAnswer: "right"},
	}

	req := validEntry()
	req.Answers = []SubmittedAnswer{{QuestionID: "q1", Answer: "wrong"}}

	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrQuizFailedNoRetry)

	var quizErr *QuizFailedError
	require.ErrorAs(t, err, &quizErr)
	require.Len(t, quizErr.Result.Quiz.Results, 1)
	assert.Equal(t, "right", quizErr.Result.Quiz.Results[0].CorrectAnswer)
}

func TestEntrySubmitQuizFailedWithRetryRecordsIneligible(t *testing.T) {
	f := newEntryFixture()
	f.doors.door.EnableQuiz = true
	f.doors.door.QuizPassingScore = 100
	f.doors.door.AllowRetry = true
	f.questions.questions = []models.QuizQuestion{
		{ID: "q1", Type: models.QuestionText, CorrectAnswer: "right"},
	}

	req := validEntry()
	req.Answers = []SubmittedAnswer{{QuestionID: "q1", Answer: "wrong"}}

	result, err := f.svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, f.entries.created, 1)
	assert.False(t, f.entries.created[0].EligibleForWinner)
	require.NotNil(t, f.entries.created[0].QuizScore)
	assert.Equal(t, 0.0, *f.entries.created[0].QuizScore)
}

func TestEntrySubmitQuizPassedRecordsAnswers(t *testing.T) {
	f := newEntryFixture()
	f.doors.door.EnableQuiz = true
	f.doors.door.QuizPassingScore = 50
	f.questions.questions = []models.QuizQuestion{
		{ID: "q1", Type: models.QuestionText, CorrectAnswer: "right"},
		{ID: "q2", Type: models.QuestionTrueFalse, CorrectAnswer: "true"},
	}

	req := validEntry()
	req.Answers = []SubmittedAnswer{
		{QuestionID: "q1", Answer: "right"},
		{QuestionID: "q2", Answer: "false"},
	}

	result, err := f.svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, f.entries.created, 1)
	assert.True(t, f.entries.created[0].QuizPassed)
	require.Len(t, f.entries.answers[0], 2)
	assert.True(t, f.entries.answers[0][0].IsCorrect)
	assert.False(t, f.entries.answers[0][1].IsCorrect)
}

func TestEntrySubmitDuplicateRejected(t *testing.T) {
	f := newEntryFixture()
	f.entries.existing = &models.DoorEntry{ID: "entry-0", LeadID: "lead-1", DoorID: "d1"}

	_, err := f.svc.Submit(context.Background(), validEntry())
	assert.ErrorIs(t, err, appErrors.ErrAlreadyEntered)
}

func TestEntrySubmitDuplicateAllowedWithoutSecondRow(t *testing.T) {
	f := newEntryFixture()
	f.calendars.calendar.AllowMultipleEntries = true
	f.entries.existing = &models.DoorEntry{ID: "entry-0", LeadID: "lead-1", DoorID: "d1"}

	result, err := f.svc.Submit(context.Background(), validEntry())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Duplicate)
	assert.Equal(t, "entry-0", result.EntryID)
	assert.Empty(t, f.entries.created)
}

func TestEntrySubmitDuplicateRaceFollowsPolicy(t *testing.T) {
	f := newEntryFixture()
	f.entries.createErr = repository.ErrDuplicateEntry

	_, err := f.svc.Submit(context.Background(), validEntry())
	assert.ErrorIs(t, err, appErrors.ErrAlreadyEntered)

	f.calendars.calendar.AllowMultipleEntries = true
	result, err := f.svc.Submit(context.Background(), validEntry())
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
}
