package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

type snapshotDocument struct {
	PaymentID  string    `bson:"payment_id"`
	UserID     string    `bson:"user_id"`
	Status     string    `bson:"status"`
	Payload    bson.M    `bson:"payload,omitempty"`
	RawPayload string    `bson:"raw_payload,omitempty"`
	ObservedAt time.Time `bson:"observed_at"`
}

// SnapshotArchive keeps every provider response seen by the reconcile loop
// as an append-only audit trail.
type SnapshotArchive struct {
	client     *mongo.Client
	collection inserter
}

func Connect(ctx context.Context, uri, database, collection string) (*SnapshotArchive, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "payment_id", Value: 1}, {Key: "observed_at", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create snapshot index: %w", err)
	}

	return &SnapshotArchive{client: client, collection: coll}, nil
}

func (a *SnapshotArchive) Archive(ctx context.Context, snapshot domain.ProviderSnapshot) error {
	doc := snapshotDocument{
		PaymentID:  snapshot.PaymentID,
		UserID:     snapshot.UserID,
		Status:     snapshot.Status,
		ObservedAt: snapshot.ObservedAt,
	}

	if len(snapshot.Payload) > 0 {
		var payload bson.M
		if err := bson.UnmarshalExtJSON(snapshot.Payload, false, &payload); err != nil {
			doc.RawPayload = string(snapshot.Payload)
		} else {
			doc.Payload = payload
		}
	}

	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to archive snapshot of payment %s: %w", snapshot.PaymentID, err)
	}
	return nil
}

func (a *SnapshotArchive) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}
