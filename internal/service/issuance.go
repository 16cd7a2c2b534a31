package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/monitoring"
	"github.com/ahmadrf/ticketeer/internal/service/ports"
)

const (
	barcodePrefix      = "TKT-"
	barcodeRandomBytes = 8
)

// LineItem is one requested (ticket type, quantity) pair within a checkout.
// UnitPrice overrides the ticket type's current price for every unit of the
// item when set.
type LineItem struct {
	TicketTypeID uuid.UUID        `json:"ticket_type_id"`
	Quantity     int              `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
}

type IssueRequest struct {
	UserID     uuid.UUID
	Items      []LineItem
	FeesAmount decimal.Decimal
}

type IssueResult struct {
	OrderID   uuid.UUID       `json:"order_id"`
	TicketIDs []uuid.UUID     `json:"ticket_ids"`
	Total     decimal.Decimal `json:"total"`
}

// IssuanceService creates an order and all of its tickets inside one store
// transaction. Capacity enforcement happens upstream in order placement;
// the engine only keeps the counters consistent with the tickets it writes.
type IssuanceService struct {
	store  ports.FactStore
	logger *zap.Logger
}

func NewIssuanceService(store ports.FactStore, logger *zap.Logger) *IssuanceService {
	return &IssuanceService{
		store:  store,
		logger: logger.Named("issuance"),
	}
}

// Issue generates one ticket row per unit across all line items and
// persists them with a single bulk write, then adjusts each ticket type's
// sold/available counters and finalizes the order, all in one transaction.
// Any failure rolls the whole transaction back; no partial ticket set is
// ever left attached to a committed order.
func (s *IssuanceService) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	if err := validateIssueRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	var result IssueResult
	err := s.store.WithinTx(ctx, func(tx ports.FactStore) error {
		order := &models.Order{
			ID:          uuid.New(),
			UserID:      req.UserID,
			Status:      models.OrderStatusPending,
			FeesAmount:  req.FeesAmount,
			TotalAmount: decimal.Zero,
		}

		total := req.FeesAmount
		var tickets []*models.Ticket
		for _, item := range req.Items {
			ticketType, err := tx.GetTicketType(ctx, item.TicketTypeID)
			if err != nil {
				return err
			}

			unitPrice := ticketType.Price
			if item.UnitPrice != nil {
				unitPrice = *item.UnitPrice
			}

			for i := 0; i < item.Quantity; i++ {
				barcode, err := generateBarcode()
				if err != nil {
					return fmt.Errorf("generate barcode: %w", err)
				}
				tickets = append(tickets, &models.Ticket{
					ID:           uuid.New(),
					OrderID:      order.ID,
					EventID:      ticketType.EventID,
					TicketTypeID: ticketType.ID,
					UserID:       req.UserID,
					Barcode:      barcode,
					Status:       models.TicketStatusValid,
					PricePaid:    unitPrice,
				})
			}
			total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order.TotalAmount = total
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.CreateTicketsBatch(ctx, tickets); err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := tx.AdjustTicketTypeCounts(ctx, item.TicketTypeID, item.Quantity); err != nil {
				return err
			}
		}
		if err := tx.MarkOrderPaid(ctx, order.ID); err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(tickets))
		for i, ticket := range tickets {
			ids[i] = ticket.ID
		}
		result = IssueResult{OrderID: order.ID, TicketIDs: ids, Total: total}
		return nil
	})
	if err != nil {
		monitoring.TrackIssuanceFailure(time.Since(start))
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrValidation) {
			return nil, err
		}
		s.logger.Error("issuance transaction rolled back", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrIssuanceFailed, err)
	}

	monitoring.TrackIssuance(len(result.TicketIDs), time.Since(start))
	s.logger.Info("tickets issued",
		zap.String("order_id", result.OrderID.String()),
		zap.Int("tickets", len(result.TicketIDs)),
		zap.String("total", result.Total.String()),
	)
	return &result, nil
}

func validateIssueRequest(req IssueRequest) error {
	if req.UserID == uuid.Nil {
		return fmt.Errorf("%w: missing user", models.ErrValidation)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: no line items", models.ErrValidation)
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1", models.ErrValidation)
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: negative unit price", models.ErrValidation)
		}
	}
	return nil
}

// generateBarcode returns a fixed-length scannable identifier: a constant
// prefix plus uppercase hex from a cryptographically secure source. The
// random space makes collisions negligible at any realistic volume; the
// unique index on tickets.barcode backstops the rest.
func generateBarcode() (string, error) {
	buf := make([]byte, barcodeRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return barcodePrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}
