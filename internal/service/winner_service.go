package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/adventio/giveaway-api/internal/models"
	"github.com/adventio/giveaway-api/internal/repository"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
)

type winnerDoorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Door, error)
}

type winnerRepository interface {
	FindByDoor(ctx context.Context, doorID string) (*models.Winner, error)
	EligibleLeadIDs(ctx context.Context, doorID string) ([]string, error)
	HasEligibleEntry(ctx context.Context, doorID, leadID string) (bool, error)
	Create(ctx context.Context, winner *models.Winner) error
	DeleteByDoor(ctx context.Context, doorID string) (bool, error)
	MarkNotified(ctx context.Context, doorID string) error
	ListByCalendar(ctx context.Context, calendarID string) ([]models.WinnerDetail, error)
}

// WinnerService draws and manages door winners. The draw is uniform over
// distinct eligible leads, so a lead's chance does not depend on how the
// duplicate-entry policy played out.
type WinnerService struct {
	doors     winnerDoorRepository
	winners   winnerRepository
	calendars entryCalendarRepository
	cache     calendarCache
	logger    *zap.Logger
	now       func() time.Time
	intn      func(n int) int
}

// NewWinnerService creates a new winner service instance.
func NewWinnerService(doors winnerDoorRepository, winners winnerRepository, calendars entryCalendarRepository, cache calendarCache, logger *zap.Logger) *WinnerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WinnerService{
		doors:     doors,
		winners:   winners,
		calendars: calendars,
		cache:     cache,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		intn:      rand.Intn,
	}
}

// Draw selects a winner for the door. With an explicit lead ID the draw is
// an operator override, validated against the eligible pool; otherwise one
// lead is picked uniformly at random. The store's uniqueness constraint is
// the final arbiter when two draws race.
func (s *WinnerService) Draw(ctx context.Context, doorID, leadID, selectedBy string) (*models.Winner, error) {
	door, err := s.doors.FindByID(ctx, doorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrDoorNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load door")
	}

	existing, err := s.winners.FindByDoor(ctx, door.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check winner")
	}
	if existing != nil {
		return nil, appErrors.ErrWinnerAlreadyExists
	}

	if leadID != "" {
		eligible, err := s.winners.HasEligibleEntry(ctx, door.ID, leadID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check eligibility")
		}
		if !eligible {
			return nil, appErrors.Clone(appErrors.ErrValidation, "lead has no eligible entry for this door")
		}
	} else {
		ids, err := s.winners.EligibleLeadIDs(ctx, door.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load eligible leads")
		}
		if len(ids) == 0 {
			return nil, appErrors.ErrNoEligibleEntries
		}
		leadID = ids[s.intn(len(ids))]
	}

	winner := &models.Winner{
		DoorID:     door.ID,
		LeadID:     leadID,
		SelectedAt: s.now(),
		SelectedBy: selectedBy,
	}
	if err := s.winners.Create(ctx, winner); err != nil {
		if errors.Is(err, repository.ErrWinnerExists) {
			return nil, appErrors.ErrWinnerAlreadyExists
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store winner")
	}

	s.logger.Info("winner drawn",
		zap.String("door_id", door.ID),
		zap.String("lead_id", leadID),
		zap.String("selected_by", selectedBy),
	)

	s.invalidateDoorCalendar(ctx, door)
	return winner, nil
}

// Remove deletes the winner of a door, reopening it for a redraw.
func (s *WinnerService) Remove(ctx context.Context, doorID string) error {
	door, err := s.doors.FindByID(ctx, doorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrDoorNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load door")
	}

	deleted, err := s.winners.DeleteByDoor(ctx, door.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove winner")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "no winner for this door")
	}

	s.invalidateDoorCalendar(ctx, door)
	return nil
}

// MarkNotified flags the door's winner as notified.
func (s *WinnerService) MarkNotified(ctx context.Context, doorID string) error {
	if err := s.winners.MarkNotified(ctx, doorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "no winner for this door")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark winner notified")
	}
	return nil
}

// ListByCalendar returns all winners of a calendar with door and lead
// context attached.
func (s *WinnerService) ListByCalendar(ctx context.Context, calendarID string) ([]models.WinnerDetail, error) {
	winners, err := s.winners.ListByCalendar(ctx, calendarID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list winners")
	}
	return winners, nil
}

// invalidateDoorCalendar drops the cached public payload so the has_winner
// flag flips without waiting out the TTL.
func (s *WinnerService) invalidateDoorCalendar(ctx context.Context, door *models.Door) {
	if s.cache == nil || s.calendars == nil {
		return
	}
	calendar, err := s.calendars.FindByID(ctx, door.CalendarID)
	if err != nil {
		s.logger.Warn("cache invalidation skipped", zap.String("calendar_id", door.CalendarID), zap.Error(err))
		return
	}
	s.cache.Delete(ctx, publicCalendarKey(calendar.Slug))
}
