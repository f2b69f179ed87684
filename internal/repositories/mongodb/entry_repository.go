package mongodb

import (
	"context"
	"time"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntryRepository implements the repositories.EntryRepository interface
type EntryRepository struct {
	collection *mongo.Collection
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *mongo.Database) repositories.EntryRepository {
	return &EntryRepository{
		collection: db.Collection("entries"),
	}
}

// Create creates a new entry
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	entry.Email = models.NormalizeEmail(entry.Email)
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}
	return nil
}

// FindByID finds an entry by ID
func (r *EntryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Entry, error) {
	var entry models.Entry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByPaymentRef finds an entry by its payment processor reference
func (r *EntryRepository) FindByPaymentRef(ctx context.Context, ref string) (*models.Entry, error) {
	var entry models.Entry
	err := r.collection.FindOne(ctx, bson.M{"paymentRef": ref}).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByEmail finds entries by buyer email with pagination
func (r *EntryRepository) FindByEmail(ctx context.Context, email string, page, limit int) ([]*models.Entry, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"email": models.NormalizeEmail(email)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByStatus finds entries by payment status with pagination
func (r *EntryRepository) FindByStatus(ctx context.Context, status models.PaymentStatus, page, limit int) ([]*models.Entry, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"paymentStatus": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindCompletedRaffleEntries finds all completed raffle-type entries ordered
// by payment-completion time ascending
func (r *EntryRepository) FindCompletedRaffleEntries(ctx context.Context) ([]*models.Entry, error) {
	filter := bson.M{
		"paymentStatus":  models.PaymentStatusCompleted,
		"directPurchase": false,
	}
	opts := options.Find().SetSort(bson.M{"completedAt": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SumCompletedRaffleQuantity sums Quantity over completed raffle-type entries
func (r *EntryRepository) SumCompletedRaffleQuantity(ctx context.Context) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"paymentStatus":  models.PaymentStatusCompleted,
			"directPurchase": false,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$quantity"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// Update updates an entry
func (r *EntryRepository) Update(ctx context.Context, entry *models.Entry) error {
	entry.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	return err
}

// Count counts all entries
func (r *EntryRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
