package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/monitoring"
	"github.com/ahmadrf/ticketeer/internal/service/ports"
	"github.com/ahmadrf/ticketeer/internal/timebucket"
)

// SalesBucket is one aggregation group of the sales report.
type SalesBucket struct {
	BucketKey   string          `json:"bucket_key"`
	Revenue     decimal.Decimal `json:"revenue"`
	TicketsSold int             `json:"tickets_sold"`
	OrderCount  int             `json:"order_count"`
}

type SalesReportService struct {
	store  ports.FactStore
	logger *zap.Logger
}

func NewSalesReportService(store ports.FactStore, logger *zap.Logger) *SalesReportService {
	return &SalesReportService{
		store:  store,
		logger: logger.Named("sales_report"),
	}
}

// Report aggregates PAID orders in scope into buckets keyed by the given
// granularity. Buckets are emitted in the order they are first seen while
// scanning orders ascending by creation time.
func (s *SalesReportService) Report(ctx context.Context, scope Scope, rng DateRange, granularity timebucket.Granularity) ([]SalesBucket, error) {
	start := time.Now()
	defer func() { monitoring.TrackReport("sales", time.Since(start)) }()

	if !granularity.Valid() {
		return nil, fmt.Errorf("%w: invalid granularity %q", models.ErrValidation, granularity)
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	resolved, err := resolveScope(ctx, s.store, scope)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", err)
	}
	if resolved.empty {
		return []SalesBucket{}, nil
	}

	filter := ports.OrderFilter{From: rng.From, To: rng.To}
	if resolved.scoped {
		filter.EventIDs = resolved.eventIDs
	}

	orders, err := s.store.ListPaidOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var eventNames map[uuid.UUID]string
	if granularity == timebucket.Event {
		eventNames, err = s.eventNamesFor(ctx, orders)
		if err != nil {
			return nil, err
		}
	}

	buckets := make(map[string]*SalesBucket)
	var keys []string
	for _, order := range orders {
		key := s.bucketKey(order, granularity, eventNames)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &SalesBucket{BucketKey: key, Revenue: decimal.Zero}
			buckets[key] = bucket
			keys = append(keys, key)
		}
		bucket.OrderCount++
		bucket.Revenue = bucket.Revenue.Add(order.TotalAmount)
		bucket.TicketsSold += len(order.Tickets)
	}

	report := make([]SalesBucket, 0, len(keys))
	for _, key := range keys {
		report = append(report, *buckets[key])
	}

	s.logger.Debug("sales report computed",
		zap.String("granularity", string(granularity)),
		zap.Int("orders", len(orders)),
		zap.Int("buckets", len(report)),
	)
	return report, nil
}

func (s *SalesReportService) bucketKey(order models.Order, granularity timebucket.Granularity, eventNames map[uuid.UUID]string) string {
	if granularity != timebucket.Event {
		return timebucket.Key(order.CreatedAt, granularity)
	}
	if len(order.Tickets) == 0 {
		return timebucket.UnknownEventKey
	}
	if name, ok := eventNames[order.Tickets[0].EventID]; ok {
		return name
	}
	return timebucket.UnknownEventKey
}

// eventNamesFor resolves display names for every event referenced by the
// orders' tickets in one read.
func (s *SalesReportService) eventNamesFor(ctx context.Context, orders []models.Order) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, order := range orders {
		for _, ticket := range order.Tickets {
			if _, ok := seen[ticket.EventID]; !ok {
				seen[ticket.EventID] = struct{}{}
				ids = append(ids, ticket.EventID)
			}
		}
	}

	names, err := s.store.EventNamesByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("event names: %w", err)
	}
	return names, nil
}
