package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vitalis/internal/domain"
	"vitalis/internal/port"
)

type dailySummaryRepo struct {
	db *sqlx.DB
}

// NewDailySummaryRepo creates a new PostgreSQL-backed DailySummaryRepository.
func NewDailySummaryRepo(db *sqlx.DB) port.DailySummaryRepository {
	return &dailySummaryRepo{db: db}
}

func (r *dailySummaryRepo) Upsert(ctx context.Context, summary *domain.DailySummary) error {
	query := `INSERT INTO daily_summaries
		(id, user_id, summary_date, content, model, metric_count, created_at, updated_at)
		VALUES (:id, :user_id, :summary_date, :content, :model, :metric_count, NOW(), NOW())
		ON CONFLICT (user_id, summary_date) DO UPDATE SET
			content = EXCLUDED.content,
			model = EXCLUDED.model,
			metric_count = EXCLUDED.metric_count,
			updated_at = NOW()`

	_, err := r.db.NamedExecContext(ctx, query, summary)
	if err != nil {
		return fmt.Errorf("dailySummaryRepo.Upsert: %w", err)
	}
	return nil
}

func (r *dailySummaryRepo) GetByDate(ctx context.Context, userID uuid.UUID, date string) (*domain.DailySummary, error) {
	var summary domain.DailySummary
	err := r.db.GetContext(ctx, &summary,
		"SELECT * FROM daily_summaries WHERE user_id = $1 AND summary_date = $2", userID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("dailySummaryRepo.GetByDate: %w", err)
	}
	return &summary, nil
}

func (r *dailySummaryRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DailySummary, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM daily_summaries WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("dailySummaryRepo.ListByUser count: %w", err)
	}

	var summaries []domain.DailySummary
	err = r.db.SelectContext(ctx, &summaries,
		`SELECT * FROM daily_summaries
		 WHERE user_id = $1
		 ORDER BY summary_date DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("dailySummaryRepo.ListByUser: %w", err)
	}
	return summaries, total, nil
}
