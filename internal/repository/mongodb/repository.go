package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
)

// ErrNoSnapshot is returned when no dashboard snapshot has been stored yet.
var ErrNoSnapshot = errors.New("no dashboard snapshot")

// SnapshotRepository stores daily dashboard counters.
type SnapshotRepository interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
	LatestSnapshot(ctx context.Context) (models.DashboardSnapshot, error)
}

// MongoDBRepository implements SnapshotRepository for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "dashboard_snapshots",
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveDashboardSnapshot stores the snapshot, replacing any earlier one of
// the same day.
func (r *MongoDBRepository) SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	filter := bson.M{"date": snapshot.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection().ReplaceOne(ctx, filter, snapshot, opts); err != nil {
		return fmt.Errorf("failed to save dashboard snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot.
func (r *MongoDBRepository) LatestSnapshot(ctx context.Context) (models.DashboardSnapshot, error) {
	var snapshot models.DashboardSnapshot
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	err := r.collection().FindOne(ctx, bson.D{}, opts).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return snapshot, ErrNoSnapshot
	}
	if err != nil {
		return snapshot, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return snapshot, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
