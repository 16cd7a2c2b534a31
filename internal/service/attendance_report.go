package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/monitoring"
	"github.com/ahmadrf/ticketeer/internal/service/ports"
)

// HourBucket is one point of the check-in velocity curve.
type HourBucket struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

type AttendanceReport struct {
	EventName      string       `json:"event_name"`
	TotalCapacity  int          `json:"total_capacity"`
	TicketsSold    int64        `json:"tickets_sold"`
	CheckedIn      int64        `json:"checked_in"`
	AttendanceRate float64      `json:"attendance_rate"`
	CheckInsByHour []HourBucket `json:"check_ins_by_hour"`
}

type AttendanceService struct {
	store  ports.FactStore
	logger *zap.Logger
}

func NewAttendanceService(store ports.FactStore, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		store:  store,
		logger: logger.Named("attendance"),
	}
}

// Report computes sold/checked-in counts for one event and buckets
// successful entry scans hourly. USED tickets were VALID once, so both
// statuses count as sold.
func (s *AttendanceService) Report(ctx context.Context, eventID uuid.UUID) (*AttendanceReport, error) {
	start := time.Now()
	defer func() { monitoring.TrackReport("attendance", time.Since(start)) }()

	event, err := s.store.GetEventWithVenue(ctx, eventID)
	if err != nil {
		return nil, err
	}

	eventIDs := []uuid.UUID{eventID}
	sold, err := s.store.CountTicketsByStatus(ctx, eventIDs, []string{models.TicketStatusValid, models.TicketStatusUsed})
	if err != nil {
		return nil, fmt.Errorf("count sold tickets: %w", err)
	}
	checkedIn, err := s.store.CountTicketsByStatus(ctx, eventIDs, []string{models.TicketStatusUsed})
	if err != nil {
		return nil, fmt.Errorf("count checked-in tickets: %w", err)
	}

	rate := 0.0
	if sold > 0 {
		rate = math.Round(float64(checkedIn)/float64(sold)*100*100) / 100
	}

	capacity := 0
	if event.Venue != nil {
		capacity = event.Venue.Capacity
	}

	byHour, err := s.checkInsByHour(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &AttendanceReport{
		EventName:      event.Name,
		TotalCapacity:  capacity,
		TicketsSold:    sold,
		CheckedIn:      checkedIn,
		AttendanceRate: rate,
		CheckInsByHour: byHour,
	}, nil
}

// checkInsByHour truncates successful entry scans to the hour. The store
// returns scans ascending by scan time, so first-seen bucket order is
// chronological.
func (s *AttendanceService) checkInsByHour(ctx context.Context, eventID uuid.UUID) ([]HourBucket, error) {
	scans, err := s.store.ListEntryScans(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list entry scans: %w", err)
	}

	counts := make(map[time.Time]int)
	var hours []time.Time
	for _, scan := range scans {
		hour := scan.ScannedAt.UTC().Truncate(time.Hour)
		if _, ok := counts[hour]; !ok {
			hours = append(hours, hour)
		}
		counts[hour]++
	}

	buckets := make([]HourBucket, 0, len(hours))
	for _, hour := range hours {
		buckets = append(buckets, HourBucket{Hour: hour, Count: counts[hour]})
	}
	return buckets, nil
}
