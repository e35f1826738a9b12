package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adventio/giveaway-api/internal/models"
	"github.com/adventio/giveaway-api/internal/repository"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
)

type entryCalendarRepository interface {
	FindByID(ctx context.Context, id string) (*models.Calendar, error)
}

type entryDoorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Door, error)
}

type entryQuestionRepository interface {
	ListByDoor(ctx context.Context, doorID string) ([]models.QuizQuestion, error)
}

type entryLeadRepository interface {
	Upsert(ctx context.Context, lead *models.Lead) error
}

type entryRepository interface {
	FindByLeadAndDoor(ctx context.Context, leadID, doorID string) (*models.DoorEntry, error)
	CreateWithAnswers(ctx context.Context, entry *models.DoorEntry, answers []models.QuestionAnswer) error
}

type entryWinnerRepository interface {
	FindByDoor(ctx context.Context, doorID string) (*models.Winner, error)
}

// SubmitEntryRequest is a participant's entry attempt on a door.
type SubmitEntryRequest struct {
	CalendarID     string            `json:"calendar_id" validate:"required"`
	DoorID         string            `json:"door_id" validate:"required"`
	Email          string            `json:"email"`
	Name           string            `json:"name"`
	Phone          string            `json:"phone"`
	TermsAccepted  bool              `json:"terms_accepted"`
	MarketingOptIn bool              `json:"marketing_opt_in"`
	PrivacyPolicy  bool              `json:"privacy_policy_accepted"`
	Answers        []SubmittedAnswer `json:"answers"`

	// Captured from the request transport, never from the payload.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// QuizFeedback reports the outcome of a scored quiz attempt. Per-question
// results are attached only when the door discloses correct answers.
type QuizFeedback struct {
	Score        float64          `json:"score"`
	Passed       bool             `json:"passed"`
	PassingScore int              `json:"passing_score"`
	Results      []QuestionResult `json:"results,omitempty"`
}

// SubmitResult is the outcome of an accepted or acknowledged entry attempt.
type SubmitResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	EntryID string        `json:"entry_id,omitempty"`
	Quiz    *QuizFeedback `json:"quiz,omitempty"`

	// Duplicate marks submissions acknowledged under the multiple-entries
	// policy without a new row.
	Duplicate bool `json:"-"`
}

// QuizFailedError rejects a submission on a no-retry door whose quiz score
// fell short. It carries the scored result so the response can report the
// breakdown, and unwraps to ErrQuizFailedNoRetry for code checks.
type QuizFailedError struct {
	Result *SubmitResult
}

func (e *QuizFailedError) Error() string { return appErrors.ErrQuizFailedNoRetry.Message }

func (e *QuizFailedError) Unwrap() error { return appErrors.ErrQuizFailedNoRetry }

// EntryService handles participant entry ingestion: consent checks, door
// gating, quiz scoring and duplicate policy.
type EntryService struct {
	calendars entryCalendarRepository
	doors     entryDoorRepository
	questions entryQuestionRepository
	leads     entryLeadRepository
	entries   entryRepository
	winners   entryWinnerRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEntryService creates a new entry service instance.
func NewEntryService(calendars entryCalendarRepository, doors entryDoorRepository, questions entryQuestionRepository, leads entryLeadRepository, entries entryRepository, winners entryWinnerRepository, validate *validator.Validate, logger *zap.Logger) *EntryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryService{
		calendars: calendars,
		doors:     doors,
		questions: questions,
		leads:     leads,
		entries:   entries,
		winners:   winners,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit runs the full entry pipeline. Preconditions are checked in a fixed
// order so clients get stable error codes: email, consents, calendar state,
// door existence, door open window, winner lock, then quiz.
func (s *EntryService) Submit(ctx context.Context, req SubmitEntryRequest) (*SubmitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entry payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, appErrors.ErrMissingEmail
	}
	if !req.TermsAccepted {
		return nil, appErrors.ErrTermsNotAccepted
	}
	if !req.PrivacyPolicy {
		return nil, appErrors.ErrPrivacyNotAccepted
	}

	calendar, err := s.calendars.FindByID(ctx, req.CalendarID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrCalendarNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	if !calendar.AcceptsEntries() {
		return nil, appErrors.ErrCalendarNotActive
	}
	if calendar.RequireName && strings.TrimSpace(req.Name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required for this calendar")
	}
	if calendar.RequirePhone && strings.TrimSpace(req.Phone) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "phone is required for this calendar")
	}

	door, err := s.doors.FindByID(ctx, req.DoorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrDoorNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load door")
	}
	if door.CalendarID != calendar.ID {
		return nil, appErrors.ErrDoorNotFound
	}

	now := s.now()
	if !door.OpenAt(now) {
		return nil, appErrors.ErrDoorNotYetOpen
	}

	winner, err := s.winners.FindByDoor(ctx, door.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check winner")
	}
	if winner != nil {
		return nil, appErrors.ErrWinnerAlreadySelected
	}

	var (
		quizActive bool
		quizResult QuizResult
		questions  []models.QuizQuestion
	)
	if door.EnableQuiz {
		questions, err = s.questions.ListByDoor(ctx, door.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load questions")
		}
		quizActive = len(questions) > 0
	}

	passed := true
	if quizActive {
		if len(req.Answers) == 0 {
			return nil, appErrors.ErrQuizAnswersRequired
		}
		quizResult = ScoreQuiz(questions, req.Answers)
		passed = quizResult.Percentage >= float64(door.QuizPassingScore)

		if !passed && !door.AllowRetry {
			return nil, &QuizFailedError{Result: &SubmitResult{
				Success: false,
				Message: "quiz not passed",
				Quiz:    s.feedback(door, quizResult, passed),
			}}
		}
	}

	lead := &models.Lead{
		CalendarID:            calendar.ID,
		Email:                 email,
		Name:                  strings.TrimSpace(req.Name),
		Phone:                 strings.TrimSpace(req.Phone),
		TermsAccepted:         req.TermsAccepted,
		PrivacyPolicyAccepted: req.PrivacyPolicy,
		MarketingConsent:      req.MarketingOptIn,
		ConsentTimestamp:      now,
		IPAddress:             req.IPAddress,
		UserAgent:             req.UserAgent,
	}
	if err := s.leads.Upsert(ctx, lead); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store lead")
	}

	existing, err := s.entries.FindByLeadAndDoor(ctx, lead.ID, door.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing entry")
	}
	if existing != nil {
		return s.duplicateOutcome(calendar, door, existing, quizActive, quizResult, passed)
	}

	entry := &models.DoorEntry{
		DoorID:            door.ID,
		LeadID:            lead.ID,
		QuizPassed:        passed,
		EligibleForWinner: passed,
	}
	var answers []models.QuestionAnswer
	if quizActive {
		score := quizResult.Percentage
		entry.QuizScore = &score
		for _, r := range quizResult.Results {
			answers = append(answers, models.QuestionAnswer{
				QuestionID: r.QuestionID,
				Answer:     r.Submitted,
				IsCorrect:  r.Correct,
			})
		}
	}

	if err := s.entries.CreateWithAnswers(ctx, entry, answers); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// Lost a race with a concurrent submission from the same lead.
			return s.duplicateOutcome(calendar, door, nil, quizActive, quizResult, passed)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store entry")
	}

	s.logger.Info("entry accepted",
		zap.String("calendar_id", calendar.ID),
		zap.String("door_id", door.ID),
		zap.String("entry_id", entry.ID),
		zap.Bool("quiz", quizActive),
	)

	return &SubmitResult{
		Success: true,
		Message: "entry accepted",
		EntryID: entry.ID,
		Quiz:    s.quizFeedbackIfAny(door, quizActive, quizResult, passed),
	}, nil
}

// duplicateOutcome applies the calendar's repeat-entry policy. With multiple
// entries allowed the submission is acknowledged without a second row; the
// first entry keeps its recorded score.
func (s *EntryService) duplicateOutcome(calendar *models.Calendar, door *models.Door, existing *models.DoorEntry, quizActive bool, quizResult QuizResult, passed bool) (*SubmitResult, error) {
	if !calendar.AllowMultipleEntries {
		return nil, appErrors.ErrAlreadyEntered
	}
	res := &SubmitResult{
		Success:   true,
		Message:   "entry already recorded",
		Duplicate: true,
		Quiz:      s.quizFeedbackIfAny(door, quizActive, quizResult, passed),
	}
	if existing != nil {
		res.EntryID = existing.ID
	}
	return res, nil
}

func (s *EntryService) quizFeedbackIfAny(door *models.Door, quizActive bool, result QuizResult, passed bool) *QuizFeedback {
	if !quizActive {
		return nil
	}
	return s.feedback(door, result, passed)
}

func (s *EntryService) feedback(door *models.Door, result QuizResult, passed bool) *QuizFeedback {
	fb := &QuizFeedback{
		Score:        result.Percentage,
		Passed:       passed,
		PassingScore: door.QuizPassingScore,
	}
	if door.ShowCorrectAnswers {
		fb.Results = result.Results
	}
	return fb
}
