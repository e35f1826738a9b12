package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adventio/giveaway-api/internal/models"
	"github.com/adventio/giveaway-api/internal/service"
	"github.com/adventio/giveaway-api/pkg/response"
)

// LeadHandler exposes collected participant data to operators.
type LeadHandler struct {
	service *service.LeadService
	exports *service.ExportService
}

// NewLeadHandler constructs a lead handler.
func NewLeadHandler(svc *service.LeadService, exports *service.ExportService) *LeadHandler {
	return &LeadHandler{service: svc, exports: exports}
}

// ListByCalendar godoc
// @Summary List leads of a calendar
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Param search query string false "Search by email or name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id}/leads [get]
func (h *LeadHandler) ListByCalendar(c *gin.Context) {
	var filter models.LeadFilter
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	leads, pagination, err := h.service.ListByCalendar(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leads, pagination)
}

// ExportCSV godoc
// @Summary Export leads as CSV
// @Tags Leads
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 200 {file} file
// @Router /calendars/{id}/leads/export [get]
func (h *LeadHandler) ExportCSV(c *gin.Context) {
	data, filename, err := h.exports.LeadsCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportWinnersPDF godoc
// @Summary Export winners as PDF
// @Tags Winners
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 200 {file} file
// @Router /calendars/{id}/winners/export [get]
func (h *LeadHandler) ExportWinnersPDF(c *gin.Context) {
	data, filename, err := h.exports.WinnersPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
