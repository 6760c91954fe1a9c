package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vitalis/internal/domain"
	"vitalis/internal/port"
)

type healthMetricRepo struct {
	db *sqlx.DB
}

// NewHealthMetricRepo creates a new PostgreSQL-backed HealthMetricRepository.
func NewHealthMetricRepo(db *sqlx.DB) port.HealthMetricRepository {
	return &healthMetricRepo{db: db}
}

// SaveBatch inserts all records in a single multi-row INSERT. One round trip
// per batch, not per record.
func (r *healthMetricRepo) SaveBatch(ctx context.Context, records []domain.HealthMetricRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range records {
		if records[i].ID == uuid.Nil {
			records[i].ID = uuid.New()
		}
		records[i].CreatedAt = now
	}

	query := `INSERT INTO health_metrics
		(id, user_id, metric_type, value, unit, recorded_at, source, created_at)
		VALUES (:id, :user_id, :metric_type, :value, :unit, :recorded_at, :source, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, records)
	if err != nil {
		return fmt.Errorf("healthMetricRepo.SaveBatch: %w", err)
	}
	return nil
}

func (r *healthMetricRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter port.MetricFilter, offset, limit int) ([]domain.HealthMetricRecord, int, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{userID}

	if filter.MetricType != "" {
		args = append(args, filter.MetricType)
		where += fmt.Sprintf(" AND metric_type = $%d", len(args))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		where += fmt.Sprintf(" AND source = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND recorded_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(" AND recorded_at < $%d", len(args))
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM health_metrics "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("healthMetricRepo.ListByUser count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		"SELECT * FROM health_metrics %s ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var records []domain.HealthMetricRecord
	err = r.db.SelectContext(ctx, &records, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("healthMetricRepo.ListByUser: %w", err)
	}
	return records, total, nil
}

// LatestByType returns the most recent record for each metric type the user
// has, for the dashboard overview screen.
func (r *healthMetricRepo) LatestByType(ctx context.Context, userID uuid.UUID) ([]domain.HealthMetricRecord, error) {
	var records []domain.HealthMetricRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT DISTINCT ON (metric_type) *
		FROM health_metrics
		WHERE user_id = $1
		ORDER BY metric_type, recorded_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("healthMetricRepo.LatestByType: %w", err)
	}
	return records, nil
}
