package snapshots

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	"github.com/lodgelogic/lodgelogic-insights/internal/store"
)

type SnapshotsRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewSnapshotsRepository(db *store.DB, log *zap.Logger) *SnapshotsRepository {
	return &SnapshotsRepository{db: db, log: log}
}

// Upsert writes the snapshot for its date, replacing any earlier one.
func (r *SnapshotsRepository) Upsert(ctx context.Context, s *domain.DailySnapshot) error {
	metrics, err := json.Marshal(s.Metrics)
	if err != nil {
		return err
	}
	breakdown, err := json.Marshal(s.Breakdown)
	if err != nil {
		return err
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO analytics_snapshots (id, date, metrics, breakdown)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date) DO UPDATE
		SET metrics = EXCLUDED.metrics, breakdown = EXCLUDED.breakdown, updated_at = now()
		RETURNING id::text, created_at, updated_at`,
		s.ID, s.Date, metrics, breakdown).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// ListRange returns snapshots with from <= date <= to, oldest first.
func (r *SnapshotsRepository) ListRange(ctx context.Context, from, to time.Time) ([]domain.DailySnapshot, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, date, metrics, breakdown, created_at, updated_at
		FROM analytics_snapshots
		WHERE date BETWEEN $1 AND $2
		ORDER BY date ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.DailySnapshot{}
	for rows.Next() {
		var s domain.DailySnapshot
		var metrics, breakdown []byte
		if err := rows.Scan(&s.ID, &s.Date, &metrics, &breakdown, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(metrics, &s.Metrics); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(breakdown, &s.Breakdown); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
