package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adventio/giveaway-api/internal/middleware"
	"github.com/adventio/giveaway-api/internal/service"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
	"github.com/adventio/giveaway-api/pkg/response"
)

// PublicHandler exposes the unauthenticated participant endpoints.
type PublicHandler struct {
	calendars *service.CalendarService
	entries   *service.EntryService
	metrics   *service.MetricsService
}

// NewPublicHandler constructs a public handler.
func NewPublicHandler(calendars *service.CalendarService, entries *service.EntryService, metrics *service.MetricsService) *PublicHandler {
	return &PublicHandler{calendars: calendars, entries: entries, metrics: metrics}
}

// GetCalendar godoc
// @Summary Public calendar view
// @Description Participant-facing calendar with doors. Quiz content only on open doors, never with correct answers.
// @Tags Public
// @Produce json
// @Param slug path string true "Calendar slug"
// @Success 200 {object} response.Envelope
// @Router /public/calendars/{slug} [get]
func (h *PublicHandler) GetCalendar(c *gin.Context) {
	view, cached, err := h.calendars.PublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, view, nil, middleware.ExtractMeta(c))
}

// SubmitEntry godoc
// @Summary Submit a door entry
// @Description Records a participation attempt. Consent flags are mandatory; quiz answers are scored when the door has a quiz.
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body service.SubmitEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /public/entries [post]
func (h *PublicHandler) SubmitEntry(c *gin.Context) {
	var req service.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.entries.Submit(c.Request.Context(), req)
	if err != nil {
		h.countEntry(err)
		// A failed quiz with no retry still returns the score breakdown.
		var quizErr *service.QuizFailedError
		if errors.As(err, &quizErr) {
			response.ErrorWithData(c, err, quizErr.Result)
			return
		}
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		if result.Duplicate {
			h.metrics.CountEntry("duplicate")
		} else {
			h.metrics.CountEntry("accepted")
		}
	}
	response.Created(c, result)
}

func (h *PublicHandler) countEntry(err error) {
	if h.metrics == nil {
		return
	}
	if errors.Is(err, appErrors.ErrAlreadyEntered) {
		h.metrics.CountEntry("duplicate")
		return
	}
	h.metrics.CountEntry("rejected")
}
