package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// DashboardStats is the aggregated company snapshot rendered on the admin
// dashboard.
type DashboardStats struct {
	TotalTickets       int64                   `json:"total_tickets"`
	OpenTickets        int64                   `json:"open_tickets"`
	OverdueTickets     int64                   `json:"overdue_tickets"`
	ByStatus           map[string]int64        `json:"by_status"`
	ByType             map[string]int64        `json:"by_type"`
	ByCategory         map[string]int64        `json:"by_category"`
	AvgResolutionHours float64                 `json:"avg_resolution_hours"`
	Recent             []DashboardRecentTicket `json:"recent"`
	GeneratedAt        time.Time               `json:"generated_at"`
}

// DashboardRecentTicket is the trimmed listing row for the recent panel.
type DashboardRecentTicket struct {
	ID           string              `json:"id"`
	TicketNumber string              `json:"ticket_number"`
	Title        string              `json:"title"`
	Status       domain.TicketStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

// DashboardService computes company analytics, caching snapshots in Redis.
type DashboardService struct {
	stats    repository.DashboardRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs the service. cache may be nil, in which case
// every call recomputes.
func NewDashboardService(stats repository.DashboardRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{stats: stats, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

const dashboardCachePrefix = "dashboard:stats:"

// RegisterInvalidation subscribes cache invalidation to ticket events so the
// snapshot never lags a mutation by more than one request.
func (s *DashboardService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	handler := func(ctx context.Context, event events.Event) error {
		s.Invalidate(ctx, event.CompanyID)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, handler)
	dispatcher.Subscribe(events.EventTicketStatusChanged, handler)
	dispatcher.Subscribe(events.EventTicketRated, handler)
}

// Stats returns the dashboard snapshot for the actor's company.
func (s *DashboardService) Stats(ctx context.Context, actor Actor) (*DashboardStats, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}

	cacheKey := dashboardCachePrefix + actor.CompanyID
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	snapshot, err := s.compute(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, cacheKey, snapshot)
	return snapshot, nil
}

// Invalidate drops the cached snapshot for a company. Called from event
// handlers when tickets change.
func (s *DashboardService) Invalidate(ctx context.Context, companyID string) {
	if s.cache == nil || companyID == "" {
		return
	}
	if err := s.cache.Del(ctx, dashboardCachePrefix+companyID).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.String("company_id", companyID), zap.Error(err))
	}
}

func (s *DashboardService) compute(ctx context.Context, companyID string) (*DashboardStats, error) {
	byStatus, err := s.stats.CountByStatus(ctx, companyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byType, err := s.stats.CountByType(ctx, companyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byCategory, err := s.stats.CountByCategory(ctx, companyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	avgHours, err := s.stats.AvgResolutionHours(ctx, companyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	overdue, err := s.stats.OverdueCount(ctx, companyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	recent, err := s.stats.RecentTickets(ctx, companyID, 10)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	snapshot := &DashboardStats{
		ByStatus:           countMap(byStatus),
		ByType:             countMap(byType),
		ByCategory:         countMap(byCategory),
		AvgResolutionHours: avgHours,
		OverdueTickets:     overdue,
		GeneratedAt:        time.Now(),
	}
	for _, entry := range byStatus {
		snapshot.TotalTickets += entry.Count
		status := domain.TicketStatus(entry.Key)
		if status != domain.TicketStatusClosed && status != domain.TicketStatusRejected {
			snapshot.OpenTickets += entry.Count
		}
	}
	for _, ticket := range recent {
		snapshot.Recent = append(snapshot.Recent, DashboardRecentTicket{
			ID:           ticket.ID,
			TicketNumber: ticket.TicketNumber,
			Title:        ticket.Title,
			Status:       ticket.Status,
			CreatedAt:    ticket.CreatedAt,
		})
	}
	return snapshot, nil
}

func (s *DashboardService) fromCache(ctx context.Context, key string) *DashboardStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var snapshot DashboardStats
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

func (s *DashboardService) toCache(ctx context.Context, key string, snapshot *DashboardStats) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

func countMap(counts []repository.NamedCount) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for _, entry := range counts {
		out[entry.Key] = entry.Count
	}
	return out
}
