package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
)

const collectionCallResults = "call_results"

// CallResultRepository persists the append-only call result log.
type CallResultRepository struct {
	col *mongo.Collection
}

func NewCallResultRepository(db *mongo.Database) *CallResultRepository {
	return &CallResultRepository{col: db.Collection(collectionCallResults)}
}

func (r *CallResultRepository) Insert(ctx context.Context, result *domain.CallResult) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, result)
	return err
}

// ListByCaseID returns the call results for a case, newest first.
func (r *CallResultRepository) ListByCaseID(ctx context.Context, caseID string) ([]*domain.CallResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []*domain.CallResult
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
