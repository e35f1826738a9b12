package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adventio/giveaway-api/internal/models"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
)

type doorRepository interface {
	ListByCalendar(ctx context.Context, calendarID string) ([]models.Door, error)
	FindByID(ctx context.Context, id string) (*models.Door, error)
	Update(ctx context.Context, door *models.Door) error
}

type doorQuestionRepository interface {
	ListByDoor(ctx context.Context, doorID string) ([]models.QuizQuestion, error)
	ReplaceForDoor(ctx context.Context, doorID string, questions []models.QuizQuestion) error
	CountEntriesForDoor(ctx context.Context, doorID string) (int, error)
}

// UpdateDoorRequest carries per-door configuration. Door numbers and open
// dates are owned by the calendar synchronizer and cannot be set here.
type UpdateDoorRequest struct {
	Title              *string `json:"title"`
	ProductID          *string `json:"product_id"`
	EnableQuiz         *bool   `json:"enable_quiz"`
	QuizPassingScore   *int    `json:"quiz_passing_score" validate:"omitempty,min=0,max=100"`
	ShowCorrectAnswers *bool   `json:"show_correct_answers"`
	AllowRetry         *bool   `json:"allow_retry"`
}

// QuestionInput defines one quiz question in a replace payload.
type QuestionInput struct {
	Type              models.QuestionType `json:"type" validate:"required,oneof=TEXT MULTIPLE_CHOICE TRUE_FALSE RATING"`
	Prompt            string              `json:"prompt" validate:"required"`
	Options           []string            `json:"options"`
	CorrectAnswer     string              `json:"correct_answer" validate:"required"`
	AcceptableAnswers []string            `json:"acceptable_answers"`
	CaseSensitive     bool                `json:"case_sensitive"`
}

// DoorService manages per-door configuration and quiz content.
type DoorService struct {
	doors     doorRepository
	questions doorQuestionRepository
	calendars entryCalendarRepository
	cache     calendarCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDoorService creates a new door service instance.
func NewDoorService(doors doorRepository, questions doorQuestionRepository, calendars entryCalendarRepository, cache calendarCache, validate *validator.Validate, logger *zap.Logger) *DoorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DoorService{
		doors:     doors,
		questions: questions,
		calendars: calendars,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// ListByCalendar returns every door of a calendar in door-number order.
func (s *DoorService) ListByCalendar(ctx context.Context, calendarID string) ([]models.Door, error) {
	doors, err := s.doors.ListByCalendar(ctx, calendarID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list doors")
	}
	return doors, nil
}

// Get returns a door by ID.
func (s *DoorService) Get(ctx context.Context, id string) (*models.Door, error) {
	door, err := s.doors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrDoorNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load door")
	}
	return door, nil
}

// Update applies door configuration changes.
func (s *DoorService) Update(ctx context.Context, id string, req UpdateDoorRequest) (*models.Door, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid door payload")
	}

	door, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		door.Title = *req.Title
	}
	if req.ProductID != nil {
		if *req.ProductID == "" {
			door.ProductID = nil
		} else {
			door.ProductID = req.ProductID
		}
	}
	if req.EnableQuiz != nil {
		door.EnableQuiz = *req.EnableQuiz
	}
	if req.QuizPassingScore != nil {
		door.QuizPassingScore = *req.QuizPassingScore
	}
	if req.ShowCorrectAnswers != nil {
		door.ShowCorrectAnswers = *req.ShowCorrectAnswers
	}
	if req.AllowRetry != nil {
		door.AllowRetry = *req.AllowRetry
	}

	if err := s.doors.Update(ctx, door); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update door")
	}

	s.invalidateCalendar(ctx, door.CalendarID)
	return door, nil
}

// ListQuestions returns a door's quiz questions including answer data. This
// is the operator view; the public projection goes through PublicQuestion.
func (s *DoorService) ListQuestions(ctx context.Context, doorID string) ([]models.QuizQuestion, error) {
	if _, err := s.Get(ctx, doorID); err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByDoor(ctx, doorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return questions, nil
}

// ReplaceQuestions swaps a door's question set. Once entries exist the set is
// frozen, otherwise recorded answers would lose their reference.
func (s *DoorService) ReplaceQuestions(ctx context.Context, doorID string, inputs []QuestionInput) ([]models.QuizQuestion, error) {
	door, err := s.Get(ctx, doorID)
	if err != nil {
		return nil, err
	}

	for _, in := range inputs {
		if err := s.validator.Struct(in); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
		}
		if in.Type == models.QuestionMultipleChoice && len(in.Options) < 2 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "multiple choice questions need at least two options")
		}
	}

	count, err := s.questions.CountEntriesForDoor(ctx, door.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check entries")
	}
	if count > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "questions cannot change after entries exist")
	}

	questions := make([]models.QuizQuestion, len(inputs))
	for i, in := range inputs {
		questions[i] = models.QuizQuestion{
			DoorID:            door.ID,
			Type:              in.Type,
			Prompt:            in.Prompt,
			Options:           in.Options,
			CorrectAnswer:     in.CorrectAnswer,
			AcceptableAnswers: in.AcceptableAnswers,
			CaseSensitive:     in.CaseSensitive,
		}
	}

	if err := s.questions.ReplaceForDoor(ctx, door.ID, questions); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace questions")
	}

	s.invalidateCalendar(ctx, door.CalendarID)
	return questions, nil
}

func (s *DoorService) invalidateCalendar(ctx context.Context, calendarID string) {
	if s.cache == nil || s.calendars == nil {
		return
	}
	calendar, err := s.calendars.FindByID(ctx, calendarID)
	if err != nil {
		s.logger.Warn("cache invalidation skipped", zap.String("calendar_id", calendarID), zap.Error(err))
		return
	}
	s.cache.Delete(ctx, publicCalendarKey(calendar.Slug))
}
