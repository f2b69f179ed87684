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

// TicketRepository implements the repositories.TicketRepository interface
type TicketRepository struct {
	collection *mongo.Collection
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *mongo.Database) repositories.TicketRepository {
	return &TicketRepository{
		collection: db.Collection("tickets"),
	}
}

// CreateMany inserts a batch of tickets in one write
func (r *TicketRepository) CreateMany(ctx context.Context, tickets []*models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(tickets))
	now := time.Now()
	for _, t := range tickets {
		t.CreatedAt = now
		docs = append(docs, t)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByEntryID finds all tickets belonging to one entry, ordered by number
func (r *TicketRepository) FindByEntryID(ctx context.Context, entryID primitive.ObjectID) ([]*models.Ticket, error) {
	opts := options.Find().SetSort(bson.M{"number": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"entryId": entryID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// CountByEntryID counts tickets belonging to one entry
func (r *TicketRepository) CountByEntryID(ctx context.Context, entryID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"entryId": entryID})
}

// FindByNumber finds the ticket holding a specific number
func (r *TicketRepository) FindByNumber(ctx context.Context, number int) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.collection.FindOne(ctx, bson.M{"number": number}).Decode(&ticket)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindAllSortedByNumber returns the full ticket pool ordered by number ascending
func (r *TicketRepository) FindAllSortedByNumber(ctx context.Context) ([]*models.Ticket, error) {
	opts := options.Find().SetSort(bson.M{"number": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// MaxNumber returns the highest assigned ticket number, or 0 for an empty pool
func (r *TicketRepository) MaxNumber(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.M{"number": -1})
	var ticket models.Ticket
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return ticket.Number, nil
}

// CountByEmail counts tickets held by one buyer email
func (r *TicketRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

// Count counts all tickets
func (r *TicketRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// DeleteAll removes every ticket and returns how many were removed
func (r *TicketRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
