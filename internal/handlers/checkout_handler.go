package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmadrf/ticketeer/internal/helpers"
	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/service"
)

type CheckoutHandler struct {
	issuance *service.IssuanceService
}

func NewCheckoutHandler(issuance *service.IssuanceService) *CheckoutHandler {
	return &CheckoutHandler{issuance: issuance}
}

type CheckoutRequest struct {
	Items []struct {
		TicketTypeID uuid.UUID        `json:"ticket_type_id" binding:"required"`
		Quantity     int              `json:"quantity" binding:"required"`
		UnitPrice    *decimal.Decimal `json:"unit_price"`
	} `json:"items" binding:"required"`
	FeesAmount decimal.Decimal `json:"fees_amount"`
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	issueReq := service.IssueRequest{
		UserID:     userID.(uuid.UUID),
		FeesAmount: req.FeesAmount,
	}
	for _, item := range req.Items {
		issueReq.Items = append(issueReq.Items, service.LineItem{
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		})
	}

	result, err := h.issuance.Issue(c.Request.Context(), issueReq)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
		case errors.Is(err, models.ErrIssuanceFailed):
			helpers.RespondWithError(c, http.StatusConflict, "Ticket issuance failed. Please retry.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to issue tickets.")
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}
