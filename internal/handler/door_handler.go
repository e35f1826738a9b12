package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adventio/giveaway-api/internal/service"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
	"github.com/adventio/giveaway-api/pkg/response"
)

// DoorHandler exposes door management endpoints.
type DoorHandler struct {
	service *service.DoorService
}

// NewDoorHandler constructs a door handler.
func NewDoorHandler(svc *service.DoorService) *DoorHandler {
	return &DoorHandler{service: svc}
}

// ListByCalendar godoc
// @Summary List doors of a calendar
// @Tags Doors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id}/doors [get]
func (h *DoorHandler) ListByCalendar(c *gin.Context) {
	doors, err := h.service.ListByCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doors, nil)
}

// Get godoc
// @Summary Get door
// @Tags Doors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Door ID"
// @Success 200 {object} response.Envelope
// @Router /doors/{id} [get]
func (h *DoorHandler) Get(c *gin.Context) {
	door, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, door, nil)
}

// Update godoc
// @Summary Update door configuration
// @Tags Doors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Door ID"
// @Param payload body service.UpdateDoorRequest true "Door payload"
// @Success 200 {object} response.Envelope
// @Router /doors/{id} [put]
func (h *DoorHandler) Update(c *gin.Context) {
	var req service.UpdateDoorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	door, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, door, nil)
}

// ListQuestions godoc
// @Summary List quiz questions of a door
// @Description Operator view including correct answers.
// @Tags Doors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Door ID"
// @Success 200 {object} response.Envelope
// @Router /doors/{id}/questions [get]
func (h *DoorHandler) ListQuestions(c *gin.Context) {
	questions, err := h.service.ListQuestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, nil)
}

type replaceQuestionsRequest struct {
	Questions []service.QuestionInput `json:"questions" binding:"required"`
}

// ReplaceQuestions godoc
// @Summary Replace quiz questions of a door
// @Description Rejected once the door has recorded entries.
// @Tags Doors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Door ID"
// @Param payload body replaceQuestionsRequest true "Questions payload"
// @Success 200 {object} response.Envelope
// @Router /doors/{id}/questions [put]
func (h *DoorHandler) ReplaceQuestions(c *gin.Context) {
	var req replaceQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	questions, err := h.service.ReplaceQuestions(c.Request.Context(), c.Param("id"), req.Questions)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, nil)
}
