package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/monitoring"
	"github.com/ahmadrf/ticketeer/internal/service/ports"
)

const (
	recentOrderLimit  = 5
	dashboardCacheTTL = 30 * time.Second
	unknownEventName  = "Unknown"
)

type RecentOrder struct {
	ID           uuid.UUID       `json:"id"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	EventName    string          `json:"event_name"`
}

type DashboardStats struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalTicketsSold int64           `json:"total_tickets_sold"`
	ActiveEvents     int64           `json:"active_events"`
	RecentOrders     []RecentOrder   `json:"recent_orders"`
}

// DashboardService composes the landing-page KPIs. The redis cache is
// optional; a nil client disables it.
type DashboardService struct {
	store  ports.FactStore
	cache  *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewDashboardService(store ports.FactStore, cache *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		store:  store,
		cache:  cache,
		logger: logger.Named("dashboard"),
		now:    time.Now,
	}
}

func (s *DashboardService) Stats(ctx context.Context, scope Scope) (*DashboardStats, error) {
	start := time.Now()
	defer func() { monitoring.TrackReport("dashboard", time.Since(start)) }()

	resolved, err := resolveScope(ctx, s.store, scope)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", err)
	}
	if resolved.empty {
		return emptyStats(), nil
	}

	cacheKey := s.cacheKey(resolved.orgID)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	filter := ports.OrderFilter{}
	if resolved.scoped {
		filter.EventIDs = resolved.eventIDs
	}

	revenue, err := s.store.SumPaidOrderAmounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	var scopeIDs []uuid.UUID
	if resolved.scoped {
		scopeIDs = resolved.eventIDs
	}
	ticketsSold, err := s.store.CountTicketsByStatus(ctx, scopeIDs, []string{models.TicketStatusValid, models.TicketStatusUsed})
	if err != nil {
		return nil, fmt.Errorf("count tickets sold: %w", err)
	}

	activeEvents, err := s.store.CountActiveEvents(ctx, resolved.orgID, s.now())
	if err != nil {
		return nil, fmt.Errorf("count active events: %w", err)
	}

	recent, err := s.recentOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalRevenue:     revenue,
		TotalTicketsSold: ticketsSold,
		ActiveEvents:     activeEvents,
		RecentOrders:     recent,
	}
	s.toCache(ctx, cacheKey, stats)
	return stats, nil
}

func (s *DashboardService) recentOrders(ctx context.Context, filter ports.OrderFilter) ([]RecentOrder, error) {
	orders, err := s.store.ListRecentPaidOrders(ctx, filter, recentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}

	seen := make(map[uuid.UUID]struct{})
	var eventIDs []uuid.UUID
	for _, order := range orders {
		if len(order.Tickets) == 0 {
			continue
		}
		id := order.Tickets[0].EventID
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			eventIDs = append(eventIDs, id)
		}
	}
	names, err := s.store.EventNamesByID(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("event names: %w", err)
	}

	recent := make([]RecentOrder, 0, len(orders))
	for _, order := range orders {
		eventName := unknownEventName
		if len(order.Tickets) > 0 {
			if name, ok := names[order.Tickets[0].EventID]; ok {
				eventName = name
			}
		}

		customer := unknownEventName
		if order.User != nil {
			customer = order.User.FullName()
		}

		recent = append(recent, RecentOrder{
			ID:           order.ID,
			CustomerName: customer,
			Amount:       order.TotalAmount,
			Date:         order.CreatedAt,
			EventName:    eventName,
		})
	}
	return recent, nil
}

func (s *DashboardService) cacheKey(orgID *uuid.UUID) string {
	if orgID == nil {
		return "dashboard:stats:all"
	}
	return "dashboard:stats:" + orgID.String()
}

func (s *DashboardService) fromCache(ctx context.Context, key string) *DashboardStats {
	if s.cache == nil {
		return nil
	}

	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}

	var stats DashboardStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		s.logger.Warn("dashboard cache payload invalid", zap.Error(err))
		return nil
	}
	return &stats
}

func (s *DashboardService) toCache(ctx context.Context, key string, stats *DashboardStats) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		s.logger.Warn("dashboard cache marshal failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, payload, dashboardCacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

func emptyStats() *DashboardStats {
	return &DashboardStats{
		TotalRevenue: decimal.Zero,
		RecentOrders: []RecentOrder{},
	}
}
