package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// NamedCount pairs a label (status, type or category name) with a tally.
type NamedCount struct {
	Key   string
	Count int64
}

// DashboardRepository runs company-scoped aggregation queries.
type DashboardRepository interface {
	CountByStatus(ctx context.Context, companyID string) ([]NamedCount, error)
	CountByType(ctx context.Context, companyID string) ([]NamedCount, error)
	CountByCategory(ctx context.Context, companyID string) ([]NamedCount, error)
	AvgResolutionHours(ctx context.Context, companyID string) (float64, error)
	OverdueCount(ctx context.Context, companyID string) (int64, error)
	RecentTickets(ctx context.Context, companyID string, limit int) ([]domain.Ticket, error)
}

type dashboardRepository struct {
	db Querier
}

// NewDashboardRepository constructs repository.
func NewDashboardRepository(db Querier) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountByStatus(ctx context.Context, companyID string) ([]NamedCount, error) {
	const query = `
        SELECT status, COUNT(*) FROM tickets
        WHERE company_id=$1 GROUP BY status`
	return r.namedCounts(ctx, query, companyID)
}

func (r *dashboardRepository) CountByType(ctx context.Context, companyID string) ([]NamedCount, error) {
	const query = `
        SELECT tt.name, COUNT(*) FROM tickets t
        JOIN ticket_types tt ON tt.id = t.type_id
        WHERE t.company_id=$1 GROUP BY tt.name`
	return r.namedCounts(ctx, query, companyID)
}

func (r *dashboardRepository) CountByCategory(ctx context.Context, companyID string) ([]NamedCount, error) {
	const query = `
        SELECT tc.name, COUNT(*) FROM tickets t
        JOIN ticket_categories tc ON tc.id = t.category_id
        WHERE t.company_id=$1 GROUP BY tc.name`
	return r.namedCounts(ctx, query, companyID)
}

func (r *dashboardRepository) namedCounts(ctx context.Context, query, companyID string) ([]NamedCount, error) {
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []NamedCount
	for rows.Next() {
		var count NamedCount
		if err := rows.Scan(&count.Key, &count.Count); err != nil {
			return nil, err
		}
		result = append(result, count)
	}
	return result, rows.Err()
}

func (r *dashboardRepository) AvgResolutionHours(ctx context.Context, companyID string) (float64, error) {
	const query = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - submitted_at)) / 3600.0), 0)
        FROM tickets WHERE company_id=$1 AND resolved_at IS NOT NULL`
	var avg float64
	if err := r.db.QueryRow(ctx, query, companyID).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

func (r *dashboardRepository) OverdueCount(ctx context.Context, companyID string) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM tickets
        WHERE company_id=$1 AND due_date IS NOT NULL AND due_date < NOW()
          AND status NOT IN ('CLOSED','REJECTED')`
	var count int64
	if err := r.db.QueryRow(ctx, query, companyID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *dashboardRepository) RecentTickets(ctx context.Context, companyID string, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE company_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}
