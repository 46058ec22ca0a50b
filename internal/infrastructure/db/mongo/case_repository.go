package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

const collectionCases = "cases"

type CaseRepository struct {
	col *mongo.Collection
}

func NewCaseRepository(db *mongo.Database) *CaseRepository {
	return &CaseRepository{col: db.Collection(collectionCases)}
}

// Create inserts a new case document.
func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, c)
	return err
}

// FindByID retrieves a case by id. When userID is non-empty an additional
// owner filter is applied, so a foreign case reads as not-found.
func (r *CaseRepository) FindByID(ctx context.Context, caseID string, userID string) (*domain.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": caseID}
	if userID != "" {
		filter["user_id"] = userID
	}

	var c domain.Case
	err := r.col.FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns a page of cases matching filter, newest first, plus the total
// count of matches.
func (r *CaseRepository) List(ctx context.Context, filter ports.ListCasesFilter) ([]*domain.Case, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
		if filter.Page > 1 {
			opts.SetSkip(int64((filter.Page - 1) * filter.Limit))
		}
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var cases []*domain.Case
	if err := cur.All(ctx, &cases); err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// Update replaces the mutable fields of the case identified by c.ID.
func (r *CaseRepository) Update(ctx context.Context, c *domain.Case) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"company_name":  c.CompanyName,
		"employee_name": c.EmployeeName,
		"reason":        c.Reason,
		"status":        c.Status,
		"updated_at":    c.UpdatedAt,
	}
	if c.LastCallAt != nil {
		set["last_call_at"] = c.LastCallAt
	}

	res, err := r.col.UpdateByID(ctx, c.ID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

// RecordCallStarted atomically marks the case negotiating and stamps the
// call and update timestamps.
func (r *CaseRepository) RecordCallStarted(ctx context.Context, caseID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, caseID, bson.M{"$set": bson.M{
		"status":       domain.StatusNegotiating,
		"last_call_at": at,
		"updated_at":   at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

// Delete removes a case permanently.
func (r *CaseRepository) Delete(ctx context.Context, caseID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": caseID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

// CountByStatus groups all cases by status and additionally counts those
// created at or after since.
func (r *CaseRepository) CountByStatus(ctx context.Context, since time.Time) (map[domain.CaseStatus]int64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status domain.CaseStatus `bson:"_id"`
		Count  int64             `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, 0, err
	}

	counts := make(map[domain.CaseStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	recent, err := r.col.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
	if err != nil {
		return nil, 0, err
	}
	return counts, recent, nil
}

// EnsureIndexes creates necessary indexes on the cases collection.
func (r *CaseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
