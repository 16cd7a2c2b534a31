package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/service/ports"
)

// GormStore implements ports.FactStore on a Postgres-backed gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetEventWithVenue(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).Preload("Venue").Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (s *GormStore) EventIDsByOrganization(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("organization_id = ?", orgID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("event ids by organization: %w", err)
	}
	return ids, nil
}

func (s *GormStore) EventNamesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uuid.UUID
		Name string
	}
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Select("id, name").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("event names: %w", err)
	}

	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (s *GormStore) CountActiveEvents(ctx context.Context, orgID *uuid.UUID, now time.Time) (int64, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("status = ? AND end_datetime >= ?", models.EventStatusPublished, now)
	if orgID != nil {
		query = query.Where("organization_id = ?", *orgID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count active events: %w", err)
	}
	return count, nil
}

// scopedPaidOrders builds the base query for PAID orders under a filter.
// Event scoping goes through a nested subquery over tickets and ticket
// types because orders carry no event foreign key.
func (s *GormStore) scopedPaidOrders(ctx context.Context, f ports.OrderFilter) *gorm.DB {
	query := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("orders.status = ?", models.OrderStatusPaid)

	if len(f.EventIDs) > 0 {
		ticketTypeIDs := s.db.Model(&models.TicketType{}).
			Select("ticket_types.id").
			Where("ticket_types.event_id IN ?", f.EventIDs)
		orderIDs := s.db.Model(&models.Ticket{}).
			Select("tickets.order_id").
			Where("tickets.ticket_type_id IN (?)", ticketTypeIDs)
		query = query.Where("orders.id IN (?)", orderIDs)
	}

	if f.From != nil {
		query = query.Where("orders.created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("orders.created_at <= ?", *f.To)
	}
	return query
}

func (s *GormStore) ListPaidOrders(ctx context.Context, f ports.OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := s.scopedPaidOrders(ctx, f).
		Preload("Tickets").
		Order("orders.created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list paid orders: %w", err)
	}
	return orders, nil
}

func (s *GormStore) ListRecentPaidOrders(ctx context.Context, f ports.OrderFilter, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := s.scopedPaidOrders(ctx, f).
		Preload("Tickets").
		Preload("User").
		Order("orders.created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list recent paid orders: %w", err)
	}
	return orders, nil
}

func (s *GormStore) SumPaidOrderAmounts(ctx context.Context, f ports.OrderFilter) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := s.scopedPaidOrders(ctx, f).
		Select("COALESCE(SUM(orders.total_amount), 0) AS total").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum paid order amounts: %w", err)
	}
	return result.Total, nil
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (s *GormStore) MarkOrderPaid(ctx context.Context, orderID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":         models.OrderStatusPaid,
			"payment_status": models.PaymentStatusCompleted,
		}).Error
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	return nil
}

func (s *GormStore) CountTicketsByStatus(ctx context.Context, eventIDs []uuid.UUID, statuses []string) (int64, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("status IN ?", statuses)
	if len(eventIDs) > 0 {
		query = query.Where("event_id IN ?", eventIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return count, nil
}

// CreateTicketsBatch inserts all rows with one multi-row INSERT.
func (s *GormStore) CreateTicketsBatch(ctx context.Context, tickets []*models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&tickets).Error; err != nil {
		return fmt.Errorf("create tickets batch: %w", err)
	}
	return nil
}

func (s *GormStore) GetTicketByBarcode(ctx context.Context, barcode string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.WithContext(ctx).Where("barcode = ?", barcode).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket barcode: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("get ticket by barcode: %w", err)
	}
	return &ticket, nil
}

// MarkTicketUsed flips a VALID ticket to USED. The status guard in the WHERE
// clause makes concurrent scans of the same barcode serialize to exactly one
// winner; the loser sees ErrTicketUsed.
func (s *GormStore) MarkTicketUsed(ctx context.Context, ticketID, scannerID uuid.UUID, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticketID, models.TicketStatusValid).
		Updates(map[string]interface{}{
			"status":        models.TicketStatusUsed,
			"checked_in_at": at,
			"checked_in_by": scannerID,
		})
	if result.Error != nil {
		return fmt.Errorf("mark ticket used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrTicketUsed
	}
	return nil
}

func (s *GormStore) GetTicketType(ctx context.Context, id uuid.UUID) (*models.TicketType, error) {
	var tt models.TicketType
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&tt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket type %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get ticket type: %w", err)
	}
	return &tt, nil
}

func (s *GormStore) AdjustTicketTypeCounts(ctx context.Context, id uuid.UUID, quantity int) error {
	err := s.db.WithContext(ctx).
		Model(&models.TicketType{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity_sold":      gorm.Expr("quantity_sold + ?", quantity),
			"quantity_available": gorm.Expr("quantity_available - ?", quantity),
		}).Error
	if err != nil {
		return fmt.Errorf("adjust ticket type counts: %w", err)
	}
	return nil
}

func (s *GormStore) ListEntryScans(ctx context.Context, eventID uuid.UUID) ([]models.ScanLog, error) {
	var scans []models.ScanLog
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND scan_type = ? AND success = ?", eventID, models.ScanTypeEntry, true).
		Order("scanned_at ASC").
		Find(&scans).Error
	if err != nil {
		return nil, fmt.Errorf("list entry scans: %w", err)
	}
	return scans, nil
}

func (s *GormStore) CreateScanLog(ctx context.Context, log *models.ScanLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("create scan log: %w", err)
	}
	return nil
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(ports.FactStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
