package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmadrf/ticketeer/internal/models"
)

// OrderFilter narrows order reads. EventIDs scopes orders to those holding at
// least one ticket whose ticket type belongs to one of the events; orders
// have no direct event foreign key, so implementations must resolve the
// membership through tickets and ticket types. A nil bound leaves that side
// of the date range open; both bounds are inclusive.
type OrderFilter struct {
	EventIDs []uuid.UUID
	From     *time.Time
	To       *time.Time
}

// FactStore is the persistence surface the aggregation and issuance core
// runs against. All reads are side-effect-free; writes only happen to
// orders, tickets, ticket type counters and scan logs.
type FactStore interface {
	// Events.
	GetEventWithVenue(ctx context.Context, id uuid.UUID) (*models.Event, error)
	EventIDsByOrganization(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error)
	EventNamesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	CountActiveEvents(ctx context.Context, orgID *uuid.UUID, now time.Time) (int64, error)

	// Orders. List reads return tickets preloaded; ListRecentPaidOrders also
	// preloads the ordering user.
	ListPaidOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)
	ListRecentPaidOrders(ctx context.Context, f OrderFilter, limit int) ([]models.Order, error)
	SumPaidOrderAmounts(ctx context.Context, f OrderFilter) (decimal.Decimal, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	MarkOrderPaid(ctx context.Context, orderID uuid.UUID) error

	// Tickets. CreateTicketsBatch must persist all rows in a single
	// multi-row write.
	CountTicketsByStatus(ctx context.Context, eventIDs []uuid.UUID, statuses []string) (int64, error)
	CreateTicketsBatch(ctx context.Context, tickets []*models.Ticket) error
	GetTicketByBarcode(ctx context.Context, barcode string) (*models.Ticket, error)
	MarkTicketUsed(ctx context.Context, ticketID, scannerID uuid.UUID, at time.Time) error

	// Ticket types.
	GetTicketType(ctx context.Context, id uuid.UUID) (*models.TicketType, error)
	AdjustTicketTypeCounts(ctx context.Context, id uuid.UUID, quantity int) error

	// Scan logs (append-only).
	ListEntryScans(ctx context.Context, eventID uuid.UUID) ([]models.ScanLog, error)
	CreateScanLog(ctx context.Context, log *models.ScanLog) error

	// WithinTx runs fn against a store bound to a single transaction,
	// committing on nil and rolling back on error.
	WithinTx(ctx context.Context, fn func(FactStore) error) error
}
