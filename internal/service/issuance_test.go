package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ahmadrf/ticketeer/internal/models"
)

var barcodePattern = regexp.MustCompile(`^TKT-[0-9A-F]{16}$`)

func seedTicketType(t *testing.T, store *fakeStore, price string, total int) *models.TicketType {
	t.Helper()
	tt := &models.TicketType{
		ID:                uuid.New(),
		EventID:           uuid.New(),
		Name:              "General Admission",
		Price:             mustDec(t, price),
		QuantityTotal:     total,
		QuantityAvailable: total,
		Status:            models.TicketTypeStatusActive,
	}
	store.ticketTypes[tt.ID] = tt
	return tt
}

func TestIssue_CreatesTicketsWithDistinctBarcodes(t *testing.T) {
	store := newFakeStore()
	tt := seedTicketType(t, store, "25.00", 100)
	svc := NewIssuanceService(store, zap.NewNop())

	result, err := svc.Issue(context.Background(), IssueRequest{
		UserID: uuid.New(),
		Items:  []LineItem{{TicketTypeID: tt.ID, Quantity: 4}},
	})

	require.NoError(t, err)
	require.Len(t, result.TicketIDs, 4)
	require.Len(t, store.tickets, 4)

	barcodes := make(map[string]struct{})
	for _, ticket := range store.tickets {
		assert.Regexp(t, barcodePattern, ticket.Barcode)
		assert.Equal(t, models.TicketStatusValid, ticket.Status)
		assert.Equal(t, tt.EventID, ticket.EventID)
		assert.True(t, ticket.PricePaid.Equal(mustDec(t, "25.00")))
		barcodes[ticket.Barcode] = struct{}{}
	}
	assert.Len(t, barcodes, 4, "barcodes must be distinct")

	assert.Equal(t, 4, tt.QuantitySold)
	assert.Equal(t, 96, tt.QuantityAvailable)
	assert.True(t, result.Total.Equal(mustDec(t, "100.00")))

	require.Len(t, store.orders, 1)
	assert.Equal(t, models.OrderStatusPaid, store.orders[0].Status)
	assert.Equal(t, models.PaymentStatusCompleted, store.orders[0].PaymentStatus)
	assert.Equal(t, 1, store.txCalls)
}

func TestIssue_SingleBulkWriteAcrossLineItems(t *testing.T) {
	store := newFakeStore()
	var items []LineItem
	for i := 0; i < 5; i++ {
		tt := seedTicketType(t, store, "10.00", 1000)
		items = append(items, LineItem{TicketTypeID: tt.ID, Quantity: 20})
	}
	svc := NewIssuanceService(store, zap.NewNop())

	result, err := svc.Issue(context.Background(), IssueRequest{UserID: uuid.New(), Items: items})

	require.NoError(t, err)
	assert.Len(t, result.TicketIDs, 100)
	assert.Len(t, store.tickets, 100)
	assert.Equal(t, 1, store.batchCalls, "100 tickets must be persisted in one bulk write")
}

func TestIssue_UnitPriceOverride(t *testing.T) {
	store := newFakeStore()
	tt := seedTicketType(t, store, "50.00", 10)
	override := mustDec(t, "35.00")
	svc := NewIssuanceService(store, zap.NewNop())

	result, err := svc.Issue(context.Background(), IssueRequest{
		UserID:     uuid.New(),
		Items:      []LineItem{{TicketTypeID: tt.ID, Quantity: 2, UnitPrice: &override}},
		FeesAmount: mustDec(t, "3.50"),
	})

	require.NoError(t, err)
	for _, ticket := range store.tickets {
		assert.True(t, ticket.PricePaid.Equal(override))
	}
	assert.True(t, result.Total.Equal(mustDec(t, "73.50")), "total = %s", result.Total)
	assert.True(t, store.orders[0].FeesAmount.Equal(mustDec(t, "3.50")))
}

func TestIssue_BulkWriteFailureRollsBackEverything(t *testing.T) {
	store := newFakeStore()
	tt := seedTicketType(t, store, "25.00", 100)
	store.failBatchWrite = true
	svc := NewIssuanceService(store, zap.NewNop())

	_, err := svc.Issue(context.Background(), IssueRequest{
		UserID: uuid.New(),
		Items:  []LineItem{{TicketTypeID: tt.ID, Quantity: 3}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrIssuanceFailed)
	assert.Empty(t, store.orders, "no order may survive a failed bulk write")
	assert.Empty(t, store.tickets)
	assert.Equal(t, 0, store.ticketTypes[tt.ID].QuantitySold)
	assert.Equal(t, 100, store.ticketTypes[tt.ID].QuantityAvailable)
}

func TestIssue_UnknownTicketType(t *testing.T) {
	store := newFakeStore()
	svc := NewIssuanceService(store, zap.NewNop())

	_, err := svc.Issue(context.Background(), IssueRequest{
		UserID: uuid.New(),
		Items:  []LineItem{{TicketTypeID: uuid.New(), Quantity: 1}},
	})

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, store.orders)
}

func TestIssue_RejectsInvalidRequests(t *testing.T) {
	store := newFakeStore()
	tt := seedTicketType(t, store, "25.00", 100)
	svc := NewIssuanceService(store, zap.NewNop())

	_, err := svc.Issue(context.Background(), IssueRequest{UserID: uuid.New()})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Issue(context.Background(), IssueRequest{
		UserID: uuid.New(),
		Items:  []LineItem{{TicketTypeID: tt.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Issue(context.Background(), IssueRequest{
		Items: []LineItem{{TicketTypeID: tt.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Equal(t, 0, store.txCalls, "validation happens before any transaction")
}

func TestGenerateBarcode_FixedLength(t *testing.T) {
	for i := 0; i < 50; i++ {
		barcode, err := generateBarcode()
		require.NoError(t, err)
		assert.Regexp(t, barcodePattern, barcode)
	}
}
