package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ahmadrf/ticketeer/internal/helpers"
	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/service"
)

type ScanHandler struct {
	checkin *service.CheckInService
}

func NewScanHandler(checkin *service.CheckInService) *ScanHandler {
	return &ScanHandler{checkin: checkin}
}

type ScanRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

func (h *ScanHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	scannerID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	result, err := h.checkin.CheckIn(c.Request.Context(), req.Barcode, scannerID.(uuid.UUID))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		case errors.Is(err, models.ErrTicketUsed):
			helpers.RespondWithError(c, http.StatusConflict, "Ticket already used.")
		case errors.Is(err, models.ErrValidation):
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to check in ticket.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket checked in successfully.",
		"ticket":  result,
	})
}
