package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/service/ports"
)

// fakeStore is an in-memory ports.FactStore with call counters and
// transaction rollback emulation via snapshot/restore.
type fakeStore struct {
	events      map[uuid.UUID]*models.Event
	orders      []*models.Order
	tickets     []*models.Ticket
	ticketTypes map[uuid.UUID]*models.TicketType
	scanLogs    []models.ScanLog

	batchCalls     int
	txCalls        int
	failBatchWrite bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:      make(map[uuid.UUID]*models.Event),
		ticketTypes: make(map[uuid.UUID]*models.TicketType),
	}
}

func (f *fakeStore) GetEventWithVenue(_ context.Context, id uuid.UUID) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	return event, nil
}

func (f *fakeStore) EventIDsByOrganization(_ context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, event := range f.events {
		if event.OrganizationID == orgID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) EventNamesByID(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if event, ok := f.events[id]; ok {
			names[id] = event.Name
		}
	}
	return names, nil
}

func (f *fakeStore) CountActiveEvents(_ context.Context, orgID *uuid.UUID, now time.Time) (int64, error) {
	var count int64
	for _, event := range f.events {
		if event.Status != models.EventStatusPublished || event.EndDatetime.Before(now) {
			continue
		}
		if orgID != nil && event.OrganizationID != *orgID {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeStore) matchesFilter(order *models.Order, filter ports.OrderFilter) bool {
	if order.Status != models.OrderStatusPaid {
		return false
	}
	if filter.From != nil && order.CreatedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && order.CreatedAt.After(*filter.To) {
		return false
	}
	if len(filter.EventIDs) > 0 {
		inScope := false
		for _, ticket := range order.Tickets {
			for _, id := range filter.EventIDs {
				if ticket.EventID == id {
					inScope = true
				}
			}
		}
		if !inScope {
			return false
		}
	}
	return true
}

func (f *fakeStore) filteredOrders(filter ports.OrderFilter) []models.Order {
	var matched []models.Order
	for _, order := range f.orders {
		if f.matchesFilter(order, filter) {
			matched = append(matched, *order)
		}
	}
	return matched
}

func (f *fakeStore) ListPaidOrders(_ context.Context, filter ports.OrderFilter) ([]models.Order, error) {
	matched := f.filteredOrders(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (f *fakeStore) ListRecentPaidOrders(_ context.Context, filter ports.OrderFilter, limit int) ([]models.Order, error) {
	matched := f.filteredOrders(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeStore) SumPaidOrderAmounts(_ context.Context, filter ports.OrderFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, order := range f.filteredOrders(filter) {
		total = total.Add(order.TotalAmount)
	}
	return total, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order *models.Order) error {
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeStore) MarkOrderPaid(_ context.Context, orderID uuid.UUID) error {
	for _, order := range f.orders {
		if order.ID == orderID {
			order.Status = models.OrderStatusPaid
			order.PaymentStatus = models.PaymentStatusCompleted
			return nil
		}
	}
	return fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
}

func (f *fakeStore) CountTicketsByStatus(_ context.Context, eventIDs []uuid.UUID, statuses []string) (int64, error) {
	var count int64
	for _, ticket := range f.tickets {
		statusMatch := false
		for _, status := range statuses {
			if ticket.Status == status {
				statusMatch = true
			}
		}
		if !statusMatch {
			continue
		}
		if len(eventIDs) > 0 {
			inScope := false
			for _, id := range eventIDs {
				if ticket.EventID == id {
					inScope = true
				}
			}
			if !inScope {
				continue
			}
		}
		count++
	}
	return count, nil
}

func (f *fakeStore) CreateTicketsBatch(_ context.Context, tickets []*models.Ticket) error {
	f.batchCalls++
	if f.failBatchWrite {
		return errors.New("bulk insert failed")
	}
	f.tickets = append(f.tickets, tickets...)
	return nil
}

func (f *fakeStore) GetTicketByBarcode(_ context.Context, barcode string) (*models.Ticket, error) {
	for _, ticket := range f.tickets {
		if ticket.Barcode == barcode {
			return ticket, nil
		}
	}
	return nil, fmt.Errorf("ticket barcode: %w", models.ErrNotFound)
}

func (f *fakeStore) MarkTicketUsed(_ context.Context, ticketID, scannerID uuid.UUID, at time.Time) error {
	for _, ticket := range f.tickets {
		if ticket.ID != ticketID {
			continue
		}
		if ticket.Status != models.TicketStatusValid {
			return models.ErrTicketUsed
		}
		ticket.Status = models.TicketStatusUsed
		ticket.CheckedInAt = &at
		ticket.CheckedInBy = &scannerID
		return nil
	}
	return fmt.Errorf("ticket %s: %w", ticketID, models.ErrNotFound)
}

func (f *fakeStore) GetTicketType(_ context.Context, id uuid.UUID) (*models.TicketType, error) {
	tt, ok := f.ticketTypes[id]
	if !ok {
		return nil, fmt.Errorf("ticket type %s: %w", id, models.ErrNotFound)
	}
	return tt, nil
}

func (f *fakeStore) AdjustTicketTypeCounts(_ context.Context, id uuid.UUID, quantity int) error {
	tt, ok := f.ticketTypes[id]
	if !ok {
		return fmt.Errorf("ticket type %s: %w", id, models.ErrNotFound)
	}
	tt.QuantitySold += quantity
	tt.QuantityAvailable -= quantity
	return nil
}

func (f *fakeStore) ListEntryScans(_ context.Context, eventID uuid.UUID) ([]models.ScanLog, error) {
	var scans []models.ScanLog
	for _, scan := range f.scanLogs {
		if scan.EventID == eventID && scan.ScanType == models.ScanTypeEntry && scan.Success {
			scans = append(scans, scan)
		}
	}
	sort.SliceStable(scans, func(i, j int) bool {
		return scans[i].ScannedAt.Before(scans[j].ScannedAt)
	})
	return scans, nil
}

func (f *fakeStore) CreateScanLog(_ context.Context, log *models.ScanLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	f.scanLogs = append(f.scanLogs, *log)
	return nil
}

type fakeSnapshot struct {
	orders      []models.Order
	tickets     []models.Ticket
	ticketTypes map[uuid.UUID]models.TicketType
	scanLogs    []models.ScanLog
}

func (f *fakeStore) snapshot() fakeSnapshot {
	snap := fakeSnapshot{
		ticketTypes: make(map[uuid.UUID]models.TicketType, len(f.ticketTypes)),
		scanLogs:    append([]models.ScanLog(nil), f.scanLogs...),
	}
	for _, order := range f.orders {
		snap.orders = append(snap.orders, *order)
	}
	for _, ticket := range f.tickets {
		snap.tickets = append(snap.tickets, *ticket)
	}
	for id, tt := range f.ticketTypes {
		snap.ticketTypes[id] = *tt
	}
	return snap
}

func (f *fakeStore) restore(snap fakeSnapshot) {
	f.orders = nil
	for i := range snap.orders {
		order := snap.orders[i]
		f.orders = append(f.orders, &order)
	}
	f.tickets = nil
	for i := range snap.tickets {
		ticket := snap.tickets[i]
		f.tickets = append(f.tickets, &ticket)
	}
	f.ticketTypes = make(map[uuid.UUID]*models.TicketType, len(snap.ticketTypes))
	for id := range snap.ticketTypes {
		tt := snap.ticketTypes[id]
		f.ticketTypes[id] = &tt
	}
	f.scanLogs = snap.scanLogs
}

// WithinTx emulates commit-or-rollback: state mutated by fn is restored when
// fn returns an error.
func (f *fakeStore) WithinTx(_ context.Context, fn func(ports.FactStore) error) error {
	f.txCalls++
	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

var _ ports.FactStore = (*fakeStore)(nil)
