package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadpop/popup-service/internal/core/domain"
)

const collectionLeads = "leads"

// LeadRepository is the lead sink on MongoDB.
type LeadRepository struct {
	col *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{col: db.Collection(collectionLeads)}
}

// Append inserts one lead document.
func (r *LeadRepository) Append(ctx context.Context, lead *domain.Lead) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, lead)
	return err
}

// CountByClient counts persisted leads for a client.
func (r *LeadRepository) CountByClient(ctx context.Context, clientID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"client_id": clientID})
}

// ListByClient returns up to limit leads for a client, newest first.
func (r *LeadRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]*domain.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, bson.M{"client_id": clientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var leads []*domain.Lead
	if err := cur.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// EnsureIndexes creates the indexes the lead queries rely on.
func (r *LeadRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "submitted_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
