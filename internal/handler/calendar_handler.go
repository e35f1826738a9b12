package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adventio/giveaway-api/internal/models"
	"github.com/adventio/giveaway-api/internal/service"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
	"github.com/adventio/giveaway-api/pkg/response"
)

// CalendarHandler exposes calendar management endpoints.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler constructs a calendar handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// List godoc
// @Summary List calendars
// @Tags Calendars
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param format query string false "Filter by format"
// @Param search query string false "Search by title or slug"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /calendars [get]
func (h *CalendarHandler) List(c *gin.Context) {
	var filter models.CalendarFilter
	if status := c.Query("status"); status != "" {
		filter.Status = models.CalendarStatus(status)
	}
	if format := c.Query("format"); format != "" {
		filter.Format = models.CalendarFormat(format)
	}
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	calendars, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendars, pagination)
}

// Create godoc
// @Summary Create calendar
// @Tags Calendars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateCalendarRequest true "Calendar payload"
// @Success 201 {object} response.Envelope
// @Router /calendars [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	var req service.CreateCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	calendar, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, calendar)
}

// Get godoc
// @Summary Get calendar
// @Tags Calendars
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id} [get]
func (h *CalendarHandler) Get(c *gin.Context) {
	calendar, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// Update godoc
// @Summary Update calendar
// @Description Update calendar metadata. Date or door count changes resync the door set.
// @Tags Calendars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Param payload body service.UpdateCalendarRequest true "Calendar payload"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id} [put]
func (h *CalendarHandler) Update(c *gin.Context) {
	var req service.UpdateCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	calendar, err := h.service.Reconcile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

type updateStatusRequest struct {
	Status models.CalendarStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Transition calendar status
// @Tags Calendars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Param payload body updateStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id}/status [patch]
func (h *CalendarHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	calendar, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// Delete godoc
// @Summary Delete calendar
// @Tags Calendars
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 204
// @Router /calendars/{id} [delete]
func (h *CalendarHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stats godoc
// @Summary Calendar participation stats
// @Tags Calendars
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id}/stats [get]
func (h *CalendarHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
