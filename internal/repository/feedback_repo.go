package repository

import (
	"context"
	"fmt"

	"snaptext-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// feedbackDoc is the BSON shape of a record in the feedbacks collection. The
// ObjectID is translated to/from the opaque hex id the rest of the service
// works with.
type feedbackDoc struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Feedback      string        `bson:"feedback"`
	ImageRef      string        `bson:"image_url"`
	ExtractedText string        `bson:"extracted_text"`
	CreatedAt     bson.DateTime `bson:"created_at"`
}

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo(db *mongo.Database) *FeedbackRepo {
	return &FeedbackRepo{
		collection: db.Collection("feedbacks"),
	}
}

// Insert persists the record and returns the hex of the generated ObjectID.
func (r *FeedbackRepo) Insert(ctx context.Context, record *models.Feedback) (string, error) {
	doc := feedbackDoc{
		Feedback:      record.Feedback,
		ImageRef:      record.ImageRef,
		ExtractedText: record.ExtractedText,
		CreatedAt:     bson.NewDateTimeFromTime(record.CreatedAt),
	}
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(bson.ObjectID).Hex(), nil
}

// ListByCreatedAtDesc returns the entire collection, most recent first.
func (r *FeedbackRepo) ListByCreatedAtDesc(ctx context.Context) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []feedbackDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]models.Feedback, 0, len(docs))
	for _, doc := range docs {
		records = append(records, models.Feedback{
			ID:            doc.ID.Hex(),
			Feedback:      doc.Feedback,
			ImageRef:      doc.ImageRef,
			ExtractedText: doc.ExtractedText,
			CreatedAt:     doc.CreatedAt.Time().UTC(),
		})
	}
	return records, nil
}

// DeleteByID removes a record by its hex id. A delete that matches nothing
// still succeeds — Mongo reports zero deletions without an error, and that
// idempotent behavior is exactly the contract.
func (r *FeedbackRepo) DeleteByID(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid feedback id %q: %w", id, err)
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

// EnsureIndexes creates necessary indexes for the feedbacks collection
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
