package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ahmadrf/ticketeer/internal/helpers"
	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/service"
	"github.com/ahmadrf/ticketeer/internal/timebucket"
)

type ReportHandler struct {
	sales      *service.SalesReportService
	attendance *service.AttendanceService
}

func NewReportHandler(sales *service.SalesReportService, attendance *service.AttendanceService) *ReportHandler {
	return &ReportHandler{sales: sales, attendance: attendance}
}

func (h *ReportHandler) Sales(c *gin.Context) {
	granularity, err := timebucket.Parse(c.DefaultQuery("granularity", "day"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid granularity. Use day, week, month or event.")
		return
	}

	var rng service.DateRange
	if raw := c.Query("start_date"); raw != "" {
		from, err := helpers.ParseDate(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid start date format. Use YYYY-MM-DD.")
			return
		}
		rng.From = &from
	}
	if raw := c.Query("end_date"); raw != "" {
		to, err := helpers.ParseDate(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end date format. Use YYYY-MM-DD.")
			return
		}
		to = helpers.EndOfDay(to)
		rng.To = &to
	}

	scope, err := scopeFromContext(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid filter ID.")
		return
	}

	report, err := h.sales.Report(c.Request.Context(), scope, rng, granularity)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to compute sales report.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"granularity": granularity,
		"buckets":     report,
	})
}

func (h *ReportHandler) Attendance(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	report, err := h.attendance.Report(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to compute attendance report.")
		return
	}

	c.JSON(http.StatusOK, report)
}
