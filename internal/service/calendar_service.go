package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adventio/giveaway-api/internal/models"
	"github.com/adventio/giveaway-api/internal/repository"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
)

type calendarRepository interface {
	List(ctx context.Context, filter models.CalendarFilter) ([]models.Calendar, int, error)
	FindByID(ctx context.Context, id string) (*models.Calendar, error)
	FindBySlug(ctx context.Context, slug string) (*models.Calendar, error)
	CreateWithDoors(ctx context.Context, calendar *models.Calendar, doors []models.Door) error
	Update(ctx context.Context, calendar *models.Calendar) error
	UpdateStatus(ctx context.Context, id string, status models.CalendarStatus) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, id string) (*models.CalendarStats, error)
}

type calendarDoorRepository interface {
	ListByCalendar(ctx context.Context, calendarID string) ([]models.Door, error)
	ApplyChangeset(ctx context.Context, calendar *models.Calendar, cs models.DoorChangeset) error
}

type calendarQuestionRepository interface {
	ListByCalendar(ctx context.Context, calendarID string) (map[string][]models.QuizQuestion, error)
}

type calendarProductRepository interface {
	ListByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
}

type calendarWinnerRepository interface {
	ListByCalendar(ctx context.Context, calendarID string) ([]models.WinnerDetail, error)
}

type calendarCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string)
}

// CreateCalendarRequest describes the payload for creating a campaign from a
// template. For door-based calendars either an end date or a door count must
// be supplied; when both are present the date span wins.
type CreateCalendarRequest struct {
	Title                string                `json:"title" validate:"required"`
	Slug                 string                `json:"slug" validate:"required"`
	Format               models.CalendarFormat `json:"format" validate:"required,oneof=DOOR_BASED LANDING"`
	StartDate            time.Time             `json:"start_date"`
	EndDate              *time.Time            `json:"end_date"`
	DoorCount            *int                  `json:"door_count"`
	AllowMultipleEntries bool                  `json:"allow_multiple_entries"`
	RequireName          bool                  `json:"require_name"`
	RequirePhone         bool                  `json:"require_phone"`

	DefaultQuizEnabled        bool `json:"default_quiz_enabled"`
	DefaultQuizPassingScore   int  `json:"default_quiz_passing_score" validate:"min=0,max=100"`
	DefaultShowCorrectAnswers bool `json:"default_show_correct_answers"`
	DefaultAllowRetry         bool `json:"default_allow_retry"`
}

// UpdateCalendarRequest carries a partial calendar update. Changing the start
// date, end date or door count triggers a door resync.
type UpdateCalendarRequest struct {
	Title                *string    `json:"title"`
	Slug                 *string    `json:"slug"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	DoorCount            *int       `json:"door_count"`
	AllowMultipleEntries *bool      `json:"allow_multiple_entries"`
	RequireName          *bool      `json:"require_name"`
	RequirePhone         *bool      `json:"require_phone"`

	DefaultQuizEnabled        *bool `json:"default_quiz_enabled"`
	DefaultQuizPassingScore   *int  `json:"default_quiz_passing_score"`
	DefaultShowCorrectAnswers *bool `json:"default_show_correct_answers"`
	DefaultAllowRetry         *bool `json:"default_allow_retry"`
}

// CalendarService orchestrates campaign workflows including the door
// lifecycle synchronizer.
type CalendarService struct {
	repo      calendarRepository
	doors     calendarDoorRepository
	questions calendarQuestionRepository
	products  calendarProductRepository
	winners   calendarWinnerRepository
	cache     calendarCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCalendarService creates a new calendar service instance.
func NewCalendarService(repo calendarRepository, doors calendarDoorRepository, questions calendarQuestionRepository, products calendarProductRepository, winners calendarWinnerRepository, cache calendarCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		repo:      repo,
		doors:     doors,
		questions: questions,
		products:  products,
		winners:   winners,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns paginated calendars.
func (s *CalendarService) List(ctx context.Context, filter models.CalendarFilter) ([]models.Calendar, *models.Pagination, error) {
	calendars, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendars")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	return calendars, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a calendar by ID.
func (s *CalendarService) Get(ctx context.Context, id string) (*models.Calendar, error) {
	calendar, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrCalendarNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	return calendar, nil
}

// Create builds a calendar from a template. Door-based calendars get their
// full door set materialised through the same planner the resize path uses.
func (s *CalendarService) Create(ctx context.Context, req CreateCalendarRequest) (*models.Calendar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar payload")
	}

	calendar := &models.Calendar{
		Title:                     req.Title,
		Slug:                      req.Slug,
		Format:                    req.Format,
		Status:                    models.StatusDraft,
		AllowMultipleEntries:      req.AllowMultipleEntries,
		RequireEmail:              true,
		RequireName:               req.RequireName,
		RequirePhone:              req.RequirePhone,
		DefaultQuizEnabled:        req.DefaultQuizEnabled,
		DefaultQuizPassingScore:   req.DefaultQuizPassingScore,
		DefaultShowCorrectAnswers: req.DefaultShowCorrectAnswers,
		DefaultAllowRetry:         req.DefaultAllowRetry,
	}

	var doors []models.Door
	if req.Format == models.FormatLanding {
		calendar.StartDate = dateOnly(req.StartDate)
		calendar.EndDate = calendar.StartDate
		calendar.DoorCount = 0
	} else {
		if req.StartDate.IsZero() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_date is required for door-based calendars")
		}
		if req.EndDate == nil && req.DoorCount == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_date or door_count is required for door-based calendars")
		}
		start, end, count, err := resolveSpan(req.StartDate, req.EndDate, req.DoorCount, 0)
		if err != nil {
			return nil, err
		}
		calendar.StartDate = start
		calendar.EndDate = end
		calendar.DoorCount = count

		cs := PlanDoorSync(nil, start, count, DoorDefaults{
			QuizEnabled:        calendar.DefaultQuizEnabled,
			QuizPassingScore:   calendar.DefaultQuizPassingScore,
			ShowCorrectAnswers: calendar.DefaultShowCorrectAnswers,
			AllowRetry:         calendar.DefaultAllowRetry,
		})
		doors = cs.Create
	}

	if err := s.repo.CreateWithDoors(ctx, calendar, doors); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create calendar")
	}

	return calendar, nil
}

// Reconcile applies a calendar update. Date or door count changes are
// resolved into a door changeset and applied atomically; metadata-only
// updates skip door work entirely. Shrinks that would discard participant
// history are rejected before anything is touched.
func (s *CalendarService) Reconcile(ctx context.Context, id string, req UpdateCalendarRequest) (*models.Calendar, error) {
	calendar, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyCalendarMetadata(calendar, req)

	if calendar.Format == models.FormatLanding {
		if req.StartDate != nil {
			calendar.StartDate = dateOnly(*req.StartDate)
			calendar.EndDate = calendar.StartDate
		}
		if err := s.repo.Update(ctx, calendar); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update calendar")
		}
		s.invalidatePublic(ctx, calendar.Slug)
		return calendar, nil
	}

	start := calendar.StartDate
	if req.StartDate != nil {
		start = *req.StartDate
	}

	fallback := calendar.DoorCount
	newStart, newEnd, newCount, err := resolveSpan(start, req.EndDate, req.DoorCount, fallback)
	if err != nil {
		return nil, err
	}

	resyncNeeded := !newStart.Equal(calendar.StartDate) || !newEnd.Equal(calendar.EndDate) || newCount != calendar.DoorCount

	calendar.StartDate = newStart
	calendar.EndDate = newEnd
	calendar.DoorCount = newCount

	if !resyncNeeded {
		if err := s.repo.Update(ctx, calendar); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update calendar")
		}
		s.invalidatePublic(ctx, calendar.Slug)
		return calendar, nil
	}

	if !calendar.Resizable() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "calendar doors can no longer be reshaped")
	}

	current, err := s.doors.ListByCalendar(ctx, calendar.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load doors")
	}

	cs := PlanDoorSync(current, newStart, newCount, DoorDefaults{
		QuizEnabled:        calendar.DefaultQuizEnabled,
		QuizPassingScore:   calendar.DefaultQuizPassingScore,
		ShowCorrectAnswers: calendar.DefaultShowCorrectAnswers,
		AllowRetry:         calendar.DefaultAllowRetry,
	})

	if err := s.doors.ApplyChangeset(ctx, calendar, cs); err != nil {
		if errors.Is(err, repository.ErrDoorsHaveParticipation) {
			return nil, appErrors.ErrShrinkBlocked
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resync doors")
	}

	s.logger.Info("calendar doors resynced",
		zap.String("calendar_id", calendar.ID),
		zap.Int("door_count", newCount),
		zap.Int("created", len(cs.Create)),
		zap.Int("deleted", len(cs.DeleteIDs)),
		zap.Int("redated", len(cs.Redate)),
	)

	s.invalidatePublic(ctx, calendar.Slug)
	return calendar, nil
}

var calendarTransitions = map[models.CalendarStatus][]models.CalendarStatus{
	models.StatusDraft:     {models.StatusScheduled, models.StatusActive, models.StatusArchived},
	models.StatusScheduled: {models.StatusDraft, models.StatusActive, models.StatusArchived},
	models.StatusActive:    {models.StatusCompleted, models.StatusArchived},
	models.StatusCompleted: {models.StatusArchived},
}

// UpdateStatus transitions the calendar between lifecycle states.
func (s *CalendarService) UpdateStatus(ctx context.Context, id string, status models.CalendarStatus) (*models.Calendar, error) {
	calendar, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range calendarTransitions[calendar.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "invalid status transition")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update calendar status")
	}
	calendar.Status = status
	s.invalidatePublic(ctx, calendar.Slug)
	return calendar, nil
}

// Delete removes a calendar and everything hanging off it.
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	calendar, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete calendar")
	}
	s.invalidatePublic(ctx, calendar.Slug)
	return nil
}

// Stats returns participation aggregates for the operator view.
func (s *CalendarService) Stats(ctx context.Context, id string) (*models.CalendarStats, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	stats, err := s.repo.Stats(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar stats")
	}
	return stats, nil
}

// PublicBySlug builds the participant-facing calendar view. Quiz content is
// attached only to doors that are already open, and correct answers never
// leave the store. The payload is cached; the boolean reports a cache hit.
func (s *CalendarService) PublicBySlug(ctx context.Context, slug string) (*models.PublicCalendar, bool, error) {
	cacheKey := publicCalendarKey(slug)

	if s.cache != nil {
		var cached models.PublicCalendar
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, true, nil
		} else if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("public calendar cache read failed", zap.String("slug", slug), zap.Error(err))
		}
	}

	calendar, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.ErrCalendarNotFound
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	if calendar.Status == models.StatusDraft || calendar.Status == models.StatusArchived {
		return nil, false, appErrors.ErrCalendarNotFound
	}

	view := &models.PublicCalendar{
		ID:                   calendar.ID,
		Title:                calendar.Title,
		Slug:                 calendar.Slug,
		Format:               calendar.Format,
		Status:               calendar.Status,
		StartDate:            calendar.StartDate,
		EndDate:              calendar.EndDate,
		DoorCount:            calendar.DoorCount,
		AllowMultipleEntries: calendar.AllowMultipleEntries,
		RequireEmail:         calendar.RequireEmail,
		RequireName:          calendar.RequireName,
		RequirePhone:         calendar.RequirePhone,
	}

	if calendar.Format == models.FormatDoorBased {
		doors, err := s.doors.ListByCalendar(ctx, calendar.ID)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load doors")
		}
		questionsByDoor, err := s.questions.ListByCalendar(ctx, calendar.ID)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load questions")
		}
		winners, err := s.winners.ListByCalendar(ctx, calendar.ID)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load winners")
		}
		wonDoors := make(map[string]bool, len(winners))
		for _, w := range winners {
			wonDoors[w.DoorID] = true
		}

		var productIDs []string
		for _, d := range doors {
			if d.ProductID != nil {
				productIDs = append(productIDs, *d.ProductID)
			}
		}
		products, err := s.products.ListByIDs(ctx, productIDs)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load products")
		}

		now := s.now()
		view.Doors = make([]models.PublicDoor, 0, len(doors))
		for _, d := range doors {
			pd := models.PublicDoor{
				ID:         d.ID,
				DoorNumber: d.DoorNumber,
				Title:      d.Title,
				OpenDate:   d.OpenDate,
				Open:       d.OpenAt(now),
				HasWinner:  wonDoors[d.ID],
				EnableQuiz: d.EnableQuiz,
			}
			// Prize and quiz content stay hidden until the door opens.
			if pd.Open {
				if d.ProductID != nil {
					if p, ok := products[*d.ProductID]; ok {
						pd.Product = &p
					}
				}
				if d.EnableQuiz {
					for _, q := range questionsByDoor[d.ID] {
						pd.Questions = append(pd.Questions, q.Public())
					}
				}
			}
			view.Doors = append(view.Doors, pd)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, view, s.cacheTTL); err != nil {
			s.logger.Warn("public calendar cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}

	return view, false, nil
}

func (s *CalendarService) invalidatePublic(ctx context.Context, slug string) {
	if s.cache == nil || slug == "" {
		return
	}
	s.cache.Delete(ctx, publicCalendarKey(slug))
}

func publicCalendarKey(slug string) string {
	return "public_calendar:" + slug
}

// resolveSpan derives the authoritative (start, end, doorCount) triple. An
// explicit end date wins over an explicit door count; with only a count the
// end date is derived; with neither the fallback count keeps the span in
// lockstep with a moved start date.
func resolveSpan(start time.Time, end *time.Time, count *int, fallbackCount int) (time.Time, time.Time, int, error) {
	startDate := dateOnly(start)

	var endDate time.Time
	var doorCount int

	switch {
	case end != nil:
		endDate = dateOnly(*end)
		if endDate.Before(startDate) {
			return time.Time{}, time.Time{}, 0, appErrors.ErrInvalidDateRange
		}
		doorCount = int(endDate.Sub(startDate)/(24*time.Hour)) + 1
	case count != nil:
		doorCount = *count
	default:
		doorCount = fallbackCount
	}

	if doorCount < 1 || doorCount > models.MaxDoorCount {
		return time.Time{}, time.Time{}, 0, appErrors.ErrDoorCountOutOfRange
	}

	if end == nil {
		endDate = startDate.AddDate(0, 0, doorCount-1)
	}

	return startDate, endDate, doorCount, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func applyCalendarMetadata(calendar *models.Calendar, req UpdateCalendarRequest) {
	if req.Title != nil {
		calendar.Title = *req.Title
	}
	if req.Slug != nil {
		calendar.Slug = *req.Slug
	}
	if req.AllowMultipleEntries != nil {
		calendar.AllowMultipleEntries = *req.AllowMultipleEntries
	}
	if req.RequireName != nil {
		calendar.RequireName = *req.RequireName
	}
	if req.RequirePhone != nil {
		calendar.RequirePhone = *req.RequirePhone
	}
	if req.DefaultQuizEnabled != nil {
		calendar.DefaultQuizEnabled = *req.DefaultQuizEnabled
	}
	if req.DefaultQuizPassingScore != nil {
		calendar.DefaultQuizPassingScore = *req.DefaultQuizPassingScore
	}
	if req.DefaultShowCorrectAnswers != nil {
		calendar.DefaultShowCorrectAnswers = *req.DefaultShowCorrectAnswers
	}
	if req.DefaultAllowRetry != nil {
		calendar.DefaultAllowRetry = *req.DefaultAllowRetry
	}
}
