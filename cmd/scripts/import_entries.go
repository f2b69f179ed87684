package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories"
	mongorepo "github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories/mongodb"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/services"
	"github.com/vengeanceprashlesh/most-valuable-sub000/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Imports completed entries from a CSV export and mints their tickets.
// CSV columns: email, quantity, amount, payment_ref, completed_at (2006-01-02).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "raffle"
	}

	if len(os.Args) < 3 {
		log.Fatal("Usage: import_entries <raffle-id> <csv-file>")
	}
	raffleID, err := primitive.ObjectIDFromHex(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid raffle ID: %v", err)
	}
	csvFilePath := os.Args[2]

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)

	entryRepo := mongorepo.NewEntryRepository(db)
	ticketRepo := mongorepo.NewTicketRepository(db)
	ticketService := services.NewTicketService(entryRepo, ticketRepo)

	if err := importEntries(context.Background(), entryRepo, ticketService, raffleID, csvFilePath); err != nil {
		log.Fatalf("Failed to import entries: %v", err)
	}

	log.Println("Entries imported successfully")
}

func importEntries(ctx context.Context, entryRepo repositories.EntryRepository, ticketService services.TicketService, raffleID primitive.ObjectID, csvFilePath string) error {
	file, err := os.Open(csvFilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV file: %w", err)
	}

	if len(records) < 2 {
		return fmt.Errorf("CSV file is empty or has only a header")
	}

	for i, record := range records {
		// Skip header
		if i == 0 {
			continue
		}

		if len(record) < 5 {
			log.Printf("Warning: Record %d has less than 5 fields, skipping", i)
			continue
		}

		quantity, err := strconv.Atoi(record[1])
		if err != nil || quantity < 1 {
			log.Printf("Warning: Record %d has invalid quantity, skipping", i)
			continue
		}
		amount, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			log.Printf("Warning: Record %d has invalid amount, skipping", i)
			continue
		}
		completedAt, err := time.Parse("2006-01-02", record[4])
		if err != nil {
			log.Printf("Warning: Record %d has invalid date format, skipping", i)
			continue
		}

		entry := &models.Entry{
			RaffleID:      raffleID,
			Email:         models.NormalizeEmail(record[0]),
			Quantity:      quantity,
			AmountPaid:    amount,
			PaymentStatus: models.PaymentStatusCompleted,
			PaymentRef:    record[3],
			CompletedAt:   completedAt,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		if err := entryRepo.Create(ctx, entry); err != nil {
			log.Printf("Warning: Failed to create entry for record %d: %v", i, err)
			continue
		}

		if _, err := ticketService.AssignTickets(ctx, entry.ID); err != nil {
			log.Printf("Warning: Failed to assign tickets for record %d: %v", i, err)
		}
	}

	return nil
}
