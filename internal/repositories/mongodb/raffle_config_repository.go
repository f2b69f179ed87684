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

// RaffleConfigRepository implements the repositories.RaffleConfigRepository interface
type RaffleConfigRepository struct {
	collection *mongo.Collection
}

// NewRaffleConfigRepository creates a new RaffleConfigRepository
func NewRaffleConfigRepository(db *mongo.Database) repositories.RaffleConfigRepository {
	return &RaffleConfigRepository{
		collection: db.Collection("raffle_configs"),
	}
}

// Create creates a new raffle configuration
func (r *RaffleConfigRepository) Create(ctx context.Context, cfg *models.RaffleConfig) error {
	cfg.CreatedAt = time.Now()
	cfg.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, cfg)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cfg.ID = oid
	}
	return nil
}

// FindByID finds a raffle configuration by ID
func (r *RaffleConfigRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.RaffleConfig, error) {
	var cfg models.RaffleConfig
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindActive finds the raffle whose start/end window contains now
func (r *RaffleConfigRepository) FindActive(ctx context.Context) (*models.RaffleConfig, error) {
	now := time.Now()
	filter := bson.M{
		"startDate": bson.M{"$lte": now},
		"endDate":   bson.M{"$gte": now},
	}
	opts := options.FindOne().SetSort(bson.M{"startDate": -1})

	var cfg models.RaffleConfig
	err := r.collection.FindOne(ctx, filter, opts).Decode(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Update updates a raffle configuration
func (r *RaffleConfigRepository) Update(ctx context.Context, cfg *models.RaffleConfig) error {
	cfg.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": cfg.ID}, cfg)
	return err
}
