package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/adventio/giveaway-api/internal/models"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
	"github.com/adventio/giveaway-api/pkg/export"
)

// ExportService renders operator downloads: the lead list as CSV and the
// winner list as PDF.
type exportLeadRepository interface {
	AllByCalendar(ctx context.Context, calendarID string) ([]models.Lead, error)
}

type ExportService struct {
	calendars entryCalendarRepository
	leads     exportLeadRepository
	winners   calendarWinnerRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService creates a new export service instance.
func NewExportService(calendars entryCalendarRepository, leads exportLeadRepository, winners calendarWinnerRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		calendars: calendars,
		leads:     leads,
		winners:   winners,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// LeadsCSV renders all leads of a calendar as a CSV document.
func (s *ExportService) LeadsCSV(ctx context.Context, calendarID string) ([]byte, string, error) {
	calendar, err := s.calendars.FindByID(ctx, calendarID)
	if err != nil {
		return nil, "", appErrors.ErrCalendarNotFound
	}

	leads, err := s.leads.AllByCalendar(ctx, calendarID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leads")
	}

	ds := export.Dataset{
		Headers: []string{"Email", "Name", "Phone", "Terms", "Privacy", "Marketing", "Consent Timestamp", "Created"},
		Rows:    make([][]string, 0, len(leads)),
	}
	for _, l := range leads {
		ds.Rows = append(ds.Rows, []string{
			l.Email,
			l.Name,
			l.Phone,
			strconv.FormatBool(l.TermsAccepted),
			strconv.FormatBool(l.PrivacyPolicyAccepted),
			strconv.FormatBool(l.MarketingConsent),
			l.ConsentTimestamp.Format(time.RFC3339),
			l.CreatedAt.Format(time.RFC3339),
		})
	}

	out, err := s.csv.Render(ds)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}

	filename := fmt.Sprintf("leads-%s.csv", calendar.Slug)
	return out, filename, nil
}

// WinnersPDF renders the winner list of a calendar as a PDF document.
func (s *ExportService) WinnersPDF(ctx context.Context, calendarID string) ([]byte, string, error) {
	calendar, err := s.calendars.FindByID(ctx, calendarID)
	if err != nil {
		return nil, "", appErrors.ErrCalendarNotFound
	}

	winners, err := s.winners.ListByCalendar(ctx, calendarID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list winners")
	}

	ds := export.Dataset{
		Headers: []string{"Door", "Door Title", "Winner", "Email", "Selected At", "Selected By", "Notified"},
		Rows:    make([][]string, 0, len(winners)),
	}
	for _, w := range winners {
		ds.Rows = append(ds.Rows, []string{
			strconv.Itoa(w.DoorNumber),
			w.DoorTitle,
			w.LeadName,
			w.LeadEmail,
			w.SelectedAt.Format("2006-01-02 15:04"),
			w.SelectedBy,
			strconv.FormatBool(w.Notified),
		})
	}

	out, err := s.pdf.Render(ds, fmt.Sprintf("Winners: %s", calendar.Title))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}

	filename := fmt.Sprintf("winners-%s.pdf", calendar.Slug)
	return out, filename, nil
}
