package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

const kpiCollection = "kpi_snapshots"

// Repository defines the interface for KPI snapshot history.
type Repository interface {
	SaveKpiSnapshot(ctx context.Context, snapshot models.KpiSnapshot) error
	LatestKpiSnapshots(ctx context.Context, limit int) ([]models.KpiSnapshot, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoDBRepository connects to uri and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		coll:   client.Database(dbName).Collection(kpiCollection),
	}, nil
}

// SaveKpiSnapshot stores the snapshot for its date, replacing an earlier one for the same day.
func (r *MongoDBRepository) SaveKpiSnapshot(ctx context.Context, snapshot models.KpiSnapshot) error {
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	filter := bson.M{"date": snapshot.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, filter, snapshot, opts); err != nil {
		return fmt.Errorf("upsert kpi snapshot %s: %w", snapshot.Date.Format(time.DateOnly), err)
	}
	return nil
}

// LatestKpiSnapshots returns up to limit snapshots, newest first.
func (r *MongoDBRepository) LatestKpiSnapshots(ctx context.Context, limit int) ([]models.KpiSnapshot, error) {
	if limit <= 0 {
		limit = 7
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find kpi snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	snapshots := []models.KpiSnapshot{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("decode kpi snapshots: %w", err)
	}
	return snapshots, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
