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

// WinnerRecordRepository implements the repositories.WinnerRecordRepository interface
type WinnerRecordRepository struct {
	collection *mongo.Collection
}

// NewWinnerRecordRepository creates a new WinnerRecordRepository
func NewWinnerRecordRepository(db *mongo.Database) repositories.WinnerRecordRepository {
	return &WinnerRecordRepository{
		collection: db.Collection("winner_records"),
	}
}

// Create creates a new winner record
func (r *WinnerRecordRepository) Create(ctx context.Context, record *models.WinnerRecord) error {
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return nil
}

// FindByID finds a winner record by ID
func (r *WinnerRecordRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.WinnerRecord, error) {
	var record models.WinnerRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByRaffleID finds all winner records for a raffle, newest first
func (r *WinnerRecordRepository) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.WinnerRecord, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"raffleId": raffleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*models.WinnerRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FindActiveByRaffleID finds the ACTIVE winner records for a raffle in draw order
func (r *WinnerRecordRepository) FindActiveByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.WinnerRecord, error) {
	filter := bson.M{"raffleId": raffleID, "status": models.WinnerStatusActive}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*models.WinnerRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountActiveByRaffleID counts the ACTIVE winner records for a raffle
func (r *WinnerRecordRepository) CountActiveByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"raffleId": raffleID, "status": models.WinnerStatusActive})
}

// Update updates a winner record
func (r *WinnerRecordRepository) Update(ctx context.Context, record *models.WinnerRecord) error {
	record.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
	return err
}

// SupersedeAllByRaffleID flips every ACTIVE record for a raffle to SUPERSEDED
func (r *WinnerRecordRepository) SupersedeAllByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	filter := bson.M{"raffleId": raffleID, "status": models.WinnerStatusActive}
	update := bson.M{"$set": bson.M{
		"status":    models.WinnerStatusSuperseded,
		"updatedAt": time.Now(),
	}}
	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
