package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adventio/giveaway-api/internal/service"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
	"github.com/adventio/giveaway-api/pkg/response"
)

// WinnerHandler exposes winner draw endpoints.
type WinnerHandler struct {
	service          *service.WinnerService
	metrics          *service.MetricsService
	systemSelectedBy string
}

// NewWinnerHandler constructs a winner handler. systemSelectedBy is recorded
// on draws with no authenticated operator.
func NewWinnerHandler(svc *service.WinnerService, metrics *service.MetricsService, systemSelectedBy string) *WinnerHandler {
	return &WinnerHandler{service: svc, metrics: metrics, systemSelectedBy: systemSelectedBy}
}

type drawRequest struct {
	LeadID string `json:"lead_id"`
}

// Draw godoc
// @Summary Draw a winner for a door
// @Description Picks one eligible lead uniformly at random, or fixes the given lead as an operator override.
// @Tags Winners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Door ID"
// @Param payload body drawRequest false "Optional explicit lead"
// @Success 201 {object} response.Envelope
// @Router /doors/{id}/winner [post]
func (h *WinnerHandler) Draw(c *gin.Context) {
	var req drawRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}

	selectedBy := h.systemSelectedBy
	if claims := claimsFromContext(c); claims != nil {
		selectedBy = claims.Email
	}

	winner, err := h.service.Draw(c.Request.Context(), c.Param("id"), req.LeadID, selectedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountDraw()
	}
	response.Created(c, winner)
}

// Remove godoc
// @Summary Remove the winner of a door
// @Tags Winners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Door ID"
// @Success 204
// @Router /doors/{id}/winner [delete]
func (h *WinnerHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MarkNotified godoc
// @Summary Mark the winner of a door as notified
// @Tags Winners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Door ID"
// @Success 204
// @Router /doors/{id}/winner/notify [post]
func (h *WinnerHandler) MarkNotified(c *gin.Context) {
	if err := h.service.MarkNotified(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListByCalendar godoc
// @Summary List winners of a calendar
// @Tags Winners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id}/winners [get]
func (h *WinnerHandler) ListByCalendar(c *gin.Context) {
	winners, err := h.service.ListByCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, winners, nil)
}
