package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

type snapshotDoc struct {
	ID        string                   `bson:"snapshotId"`
	Date      time.Time                `bson:"date"`
	Metrics   domain.SnapshotMetrics   `bson:"metrics"`
	Breakdown domain.SnapshotBreakdown `bson:"breakdown"`
	CreatedAt time.Time                `bson:"createdAt"`
	UpdatedAt time.Time                `bson:"updatedAt"`
}

type SnapshotsRepository struct {
	c   *Client
	log *zap.Logger
}

func NewSnapshotsRepository(c *Client, log *zap.Logger) *SnapshotsRepository {
	return &SnapshotsRepository{c: c, log: log}
}

func (r *SnapshotsRepository) Upsert(ctx context.Context, s *domain.DailySnapshot) error {
	now := time.Now().UTC()
	_, err := r.c.collection(snapshotsCollection).UpdateOne(ctx,
		bson.M{"date": s.Date},
		bson.M{
			"$set": bson.M{
				"metrics":   s.Metrics,
				"breakdown": s.Breakdown,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{"snapshotId": s.ID, "createdAt": now},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	var doc snapshotDoc
	if err := r.c.collection(snapshotsCollection).FindOne(ctx, bson.M{"date": s.Date}).Decode(&doc); err != nil {
		return err
	}
	s.ID, s.CreatedAt, s.UpdatedAt = doc.ID, doc.CreatedAt, doc.UpdatedAt
	return nil
}

func (r *SnapshotsRepository) ListRange(ctx context.Context, from, to time.Time) ([]domain.DailySnapshot, error) {
	cur, err := r.c.collection(snapshotsCollection).Find(ctx,
		bson.M{"date": bson.M{"$gte": from, "$lte": to}},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []snapshotDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.DailySnapshot, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.DailySnapshot{
			ID: d.ID, Date: d.Date, Metrics: d.Metrics, Breakdown: d.Breakdown,
			CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
		})
	}
	return out, nil
}
