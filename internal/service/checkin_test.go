package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ahmadrf/ticketeer/internal/models"
)

func seedValidTicket(store *fakeStore, barcode string) *models.Ticket {
	ticket := &models.Ticket{
		ID:      uuid.New(),
		OrderID: uuid.New(),
		EventID: uuid.New(),
		UserID:  uuid.New(),
		Barcode: barcode,
		Status:  models.TicketStatusValid,
	}
	store.tickets = append(store.tickets, ticket)
	return ticket
}

func TestCheckIn_MarksTicketUsedAndLogsScan(t *testing.T) {
	store := newFakeStore()
	ticket := seedValidTicket(store, "TKT-00FFAA0011223344")
	scannerID := uuid.New()
	scannedAt := time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)

	svc := NewCheckInService(store, zap.NewNop())
	svc.now = func() time.Time { return scannedAt }

	result, err := svc.CheckIn(context.Background(), ticket.Barcode, scannerID)

	require.NoError(t, err)
	assert.Equal(t, ticket.ID, result.TicketID)
	assert.Equal(t, scannedAt, result.CheckedInAt)

	assert.Equal(t, models.TicketStatusUsed, ticket.Status)
	require.NotNil(t, ticket.CheckedInAt)
	assert.Equal(t, scannedAt, *ticket.CheckedInAt)
	require.NotNil(t, ticket.CheckedInBy)
	assert.Equal(t, scannerID, *ticket.CheckedInBy)

	require.Len(t, store.scanLogs, 1)
	scan := store.scanLogs[0]
	assert.True(t, scan.Success)
	assert.Equal(t, models.ScanTypeEntry, scan.ScanType)
	assert.Equal(t, ticket.EventID, scan.EventID)
	assert.Equal(t, scannerID, scan.ScannerID)
	assert.Equal(t, 1, store.txCalls)
}

func TestCheckIn_SecondScanRejected(t *testing.T) {
	store := newFakeStore()
	ticket := seedValidTicket(store, "TKT-AABB00112233CC44")
	scannerID := uuid.New()
	svc := NewCheckInService(store, zap.NewNop())

	_, err := svc.CheckIn(context.Background(), ticket.Barcode, scannerID)
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), ticket.Barcode, scannerID)
	assert.ErrorIs(t, err, models.ErrTicketUsed)

	require.Len(t, store.scanLogs, 2)
	assert.True(t, store.scanLogs[0].Success)
	assert.False(t, store.scanLogs[1].Success, "rejected attempt still lands in the audit trail")
	assert.Equal(t, models.TicketStatusUsed, ticket.Status)
}

func TestCheckIn_CancelledTicketRejected(t *testing.T) {
	store := newFakeStore()
	ticket := seedValidTicket(store, "TKT-0123456789ABCDEF")
	ticket.Status = models.TicketStatusCancelled
	svc := NewCheckInService(store, zap.NewNop())

	_, err := svc.CheckIn(context.Background(), ticket.Barcode, uuid.New())

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, models.TicketStatusCancelled, ticket.Status)
	require.Len(t, store.scanLogs, 1)
	assert.False(t, store.scanLogs[0].Success)
}

func TestCheckIn_UnknownBarcode(t *testing.T) {
	store := newFakeStore()
	svc := NewCheckInService(store, zap.NewNop())

	_, err := svc.CheckIn(context.Background(), "TKT-DOESNOTEXIST0000", uuid.New())

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, store.scanLogs)
}
