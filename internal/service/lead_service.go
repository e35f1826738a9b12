package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/adventio/giveaway-api/internal/models"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
)

type leadRepository interface {
	ListByCalendar(ctx context.Context, calendarID string, filter models.LeadFilter) ([]models.Lead, int, error)
}

// LeadService exposes collected participant data to operators.
type LeadService struct {
	leads     leadRepository
	calendars entryCalendarRepository
	logger    *zap.Logger
}

// NewLeadService creates a new lead service instance.
func NewLeadService(leads leadRepository, calendars entryCalendarRepository, logger *zap.Logger) *LeadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{leads: leads, calendars: calendars, logger: logger}
}

// ListByCalendar returns paginated leads for a calendar.
func (s *LeadService) ListByCalendar(ctx context.Context, calendarID string, filter models.LeadFilter) ([]models.Lead, *models.Pagination, error) {
	if _, err := s.calendars.FindByID(ctx, calendarID); err != nil {
		return nil, nil, appErrors.ErrCalendarNotFound
	}

	leads, total, err := s.leads.ListByCalendar(ctx, calendarID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leads")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	return leads, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
