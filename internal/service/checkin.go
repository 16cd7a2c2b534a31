package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/monitoring"
	"github.com/ahmadrf/ticketeer/internal/service/ports"
)

type CheckInResult struct {
	TicketID    uuid.UUID `json:"ticket_id"`
	EventID     uuid.UUID `json:"event_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

// CheckInService transitions a ticket VALID -> USED exactly once and
// records every attempt in the append-only scan log.
type CheckInService struct {
	store  ports.FactStore
	logger *zap.Logger
	now    func() time.Time
}

func NewCheckInService(store ports.FactStore, logger *zap.Logger) *CheckInService {
	return &CheckInService{
		store:  store,
		logger: logger.Named("checkin"),
		now:    time.Now,
	}
}

// CheckIn marks the ticket USED and appends the successful entry scan in the
// same transaction. Rejected attempts are logged outside the transaction so
// the audit row survives the rejection.
func (s *CheckInService) CheckIn(ctx context.Context, barcode string, scannerID uuid.UUID) (*CheckInResult, error) {
	ticket, err := s.store.GetTicketByBarcode(ctx, barcode)
	if err != nil {
		monitoring.TrackScan("not_found")
		return nil, err
	}

	scannedAt := s.now()
	if ticket.Status != models.TicketStatusValid {
		s.recordRejected(ctx, ticket, scannerID, scannedAt)
		if ticket.Status == models.TicketStatusUsed {
			return nil, models.ErrTicketUsed
		}
		return nil, fmt.Errorf("%w: ticket status %s", models.ErrValidation, ticket.Status)
	}

	err = s.store.WithinTx(ctx, func(tx ports.FactStore) error {
		if err := tx.MarkTicketUsed(ctx, ticket.ID, scannerID, scannedAt); err != nil {
			return err
		}
		return tx.CreateScanLog(ctx, &models.ScanLog{
			ScannerID: scannerID,
			TicketID:  ticket.ID,
			EventID:   ticket.EventID,
			ScanType:  models.ScanTypeEntry,
			Success:   true,
			ScannedAt: scannedAt,
		})
	})
	if err != nil {
		if errors.Is(err, models.ErrTicketUsed) {
			// Lost the race against a concurrent scan of the same barcode.
			s.recordRejected(ctx, ticket, scannerID, scannedAt)
			return nil, models.ErrTicketUsed
		}
		monitoring.TrackScan("error")
		return nil, fmt.Errorf("check in: %w", err)
	}

	monitoring.TrackScan("accepted")
	s.logger.Info("ticket checked in",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("event_id", ticket.EventID.String()),
	)
	return &CheckInResult{TicketID: ticket.ID, EventID: ticket.EventID, CheckedInAt: scannedAt}, nil
}

func (s *CheckInService) recordRejected(ctx context.Context, ticket *models.Ticket, scannerID uuid.UUID, at time.Time) {
	monitoring.TrackScan("rejected")
	err := s.store.CreateScanLog(ctx, &models.ScanLog{
		ScannerID: scannerID,
		TicketID:  ticket.ID,
		EventID:   ticket.EventID,
		ScanType:  models.ScanTypeEntry,
		Success:   false,
		ScannedAt: at,
	})
	if err != nil {
		s.logger.Warn("failed to record rejected scan", zap.Error(err))
	}
}
