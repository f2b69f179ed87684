package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories/memory"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTicketFixture() (*TicketServiceImpl, *memory.EntryRepository, *memory.TicketRepository) {
	entryRepo := memory.NewEntryRepository()
	ticketRepo := memory.NewTicketRepository()
	return NewTicketService(entryRepo, ticketRepo), entryRepo, ticketRepo
}

func createCompletedEntry(t *testing.T, repo *memory.EntryRepository, email string, quantity int) *models.Entry {
	t.Helper()
	entry := &models.Entry{
		RaffleID:      primitive.NewObjectID(),
		Email:         email,
		Quantity:      quantity,
		PaymentStatus: models.PaymentStatusCompleted,
		CompletedAt:   time.Now(),
	}
	if err := repo.Create(context.Background(), entry); err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}
	// CompletedAt ordering must be strict for deterministic rebuilds.
	time.Sleep(time.Millisecond)
	return entry
}

func TestAssignTicketsContiguous(t *testing.T) {
	svc, entryRepo, _ := newTicketFixture()
	ctx := context.Background()

	alice := createCompletedEntry(t, entryRepo, "alice@example.com", 3)
	bob := createCompletedEntry(t, entryRepo, "bob@example.com", 2)

	resA, err := svc.AssignTickets(ctx, alice.ID)
	if err != nil {
		t.Fatalf("AssignTickets(alice) error: %v", err)
	}
	if resA.StartNumber != 1 || resA.EndNumber != 3 || resA.TicketsMinted != 3 {
		t.Errorf("alice allocation = [%d..%d] x%d, want [1..3] x3",
			resA.StartNumber, resA.EndNumber, resA.TicketsMinted)
	}

	resB, err := svc.AssignTickets(ctx, bob.ID)
	if err != nil {
		t.Fatalf("AssignTickets(bob) error: %v", err)
	}
	if resB.StartNumber != 4 || resB.EndNumber != 5 || resB.TicketsMinted != 2 {
		t.Errorf("bob allocation = [%d..%d] x%d, want [4..5] x2",
			resB.StartNumber, resB.EndNumber, resB.TicketsMinted)
	}

	report, err := svc.ValidateIntegrity(ctx)
	if err != nil {
		t.Fatalf("ValidateIntegrity error: %v", err)
	}
	if !report.Valid {
		t.Errorf("pool should be valid after sequential allocations, issues: %v", report.Issues)
	}
	if report.ActualTotal != 5 || report.ExpectedTotal != 5 {
		t.Errorf("totals = %d/%d, want 5/5", report.ActualTotal, report.ExpectedTotal)
	}
}

func TestAssignTicketsIdempotent(t *testing.T) {
	svc, entryRepo, ticketRepo := newTicketFixture()
	ctx := context.Background()

	entry := createCompletedEntry(t, entryRepo, "alice@example.com", 4)

	first, err := svc.AssignTickets(ctx, entry.ID)
	if err != nil {
		t.Fatalf("first AssignTickets error: %v", err)
	}
	second, err := svc.AssignTickets(ctx, entry.ID)
	if err != nil {
		t.Fatalf("second AssignTickets error: %v", err)
	}

	if !second.AlreadyExists {
		t.Error("second allocation should report AlreadyExists")
	}
	if second.StartNumber != first.StartNumber || second.EndNumber != first.EndNumber {
		t.Errorf("second allocation range [%d..%d] differs from first [%d..%d]",
			second.StartNumber, second.EndNumber, first.StartNumber, first.EndNumber)
	}

	count, err := ticketRepo.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Errorf("ticket count = %d after duplicate allocation, want 4", count)
	}
}

func TestAssignTicketsPreconditions(t *testing.T) {
	svc, entryRepo, _ := newTicketFixture()
	ctx := context.Background()

	pending := &models.Entry{Email: "p@example.com", Quantity: 1, PaymentStatus: models.PaymentStatusPending}
	if err := entryRepo.Create(ctx, pending); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AssignTickets(ctx, pending.ID); !errors.Is(err, ErrEntryNotCompleted) {
		t.Errorf("pending entry: error = %v, want ErrEntryNotCompleted", err)
	}

	direct := &models.Entry{
		Email:          "d@example.com",
		Quantity:       1,
		PaymentStatus:  models.PaymentStatusCompleted,
		DirectPurchase: true,
	}
	if err := entryRepo.Create(ctx, direct); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AssignTickets(ctx, direct.ID); !errors.Is(err, ErrDirectPurchase) {
		t.Errorf("direct purchase: error = %v, want ErrDirectPurchase", err)
	}

	if _, err := svc.AssignTickets(ctx, primitive.NewObjectID()); err == nil {
		t.Error("unknown entry should return an error")
	}
}

func TestValidateIntegrityDetectsGap(t *testing.T) {
	svc, entryRepo, ticketRepo := newTicketFixture()
	ctx := context.Background()

	entry := createCompletedEntry(t, entryRepo, "alice@example.com", 3)
	// Tickets 1, 2, 4: position 3 is missing.
	tickets := []*models.Ticket{
		{EntryID: entry.ID, Email: entry.Email, Number: 1},
		{EntryID: entry.ID, Email: entry.Email, Number: 2},
		{EntryID: entry.ID, Email: entry.Email, Number: 4},
	}
	if err := ticketRepo.CreateMany(ctx, tickets); err != nil {
		t.Fatal(err)
	}

	report, err := svc.ValidateIntegrity(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Valid {
		t.Fatal("report should be invalid for pool {1,2,4}")
	}
	found := false
	for _, issue := range report.Issues {
		if issue == "gap at position 3" {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want to contain %q", report.Issues, "gap at position 3")
	}
}

func TestValidateIntegrityDetectsDuplicate(t *testing.T) {
	svc, entryRepo, ticketRepo := newTicketFixture()
	ctx := context.Background()

	entry := createCompletedEntry(t, entryRepo, "alice@example.com", 3)
	tickets := []*models.Ticket{
		{EntryID: entry.ID, Email: entry.Email, Number: 1},
		{EntryID: entry.ID, Email: entry.Email, Number: 2},
		{EntryID: entry.ID, Email: entry.Email, Number: 2},
	}
	if err := ticketRepo.CreateMany(ctx, tickets); err != nil {
		t.Fatal(err)
	}

	report, err := svc.ValidateIntegrity(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Valid {
		t.Fatal("report should be invalid for pool {1,2,2}")
	}
	found := false
	for _, issue := range report.Issues {
		if issue == "duplicate ticket number 2" {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want to contain %q", report.Issues, "duplicate ticket number 2")
	}
}

func TestValidateIntegrityCountMismatch(t *testing.T) {
	svc, entryRepo, ticketRepo := newTicketFixture()
	ctx := context.Background()

	// 3 slots paid for, only 2 tickets minted. Numbering itself is clean.
	entry := createCompletedEntry(t, entryRepo, "alice@example.com", 3)
	tickets := []*models.Ticket{
		{EntryID: entry.ID, Email: entry.Email, Number: 1},
		{EntryID: entry.ID, Email: entry.Email, Number: 2},
	}
	if err := ticketRepo.CreateMany(ctx, tickets); err != nil {
		t.Fatal(err)
	}

	report, err := svc.ValidateIntegrity(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Valid {
		t.Fatal("report should be invalid when ticket count trails paid quantity")
	}
	if report.ExpectedTotal != 3 || report.ActualTotal != 2 {
		t.Errorf("totals = %d/%d, want expected 3, actual 2", report.ExpectedTotal, report.ActualTotal)
	}
}

func TestValidateIntegrityEmptyPoolIsValid(t *testing.T) {
	svc, _, _ := newTicketFixture()

	report, err := svc.ValidateIntegrity(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !report.Valid {
		t.Errorf("empty pool with no completed entries should be valid, issues: %v", report.Issues)
	}
}

func TestRebuildAllTickets(t *testing.T) {
	svc, entryRepo, ticketRepo := newTicketFixture()
	ctx := context.Background()

	alice := createCompletedEntry(t, entryRepo, "alice@example.com", 2)
	bob := createCompletedEntry(t, entryRepo, "bob@example.com", 3)

	// Seed a corrupted pool: wrong numbers, missing bob entirely.
	corrupt := []*models.Ticket{
		{EntryID: alice.ID, Email: alice.Email, Number: 7},
		{EntryID: alice.ID, Email: alice.Email, Number: 9},
	}
	if err := ticketRepo.CreateMany(ctx, corrupt); err != nil {
		t.Fatal(err)
	}

	result, err := svc.RebuildAllTickets(ctx)
	if err != nil {
		t.Fatalf("RebuildAllTickets error: %v", err)
	}
	if result.TicketsDeleted != 2 || result.TicketsCreated != 5 {
		t.Errorf("rebuild = deleted %d, created %d, want 2 and 5",
			result.TicketsDeleted, result.TicketsCreated)
	}
	if result.FirstNumber != 1 || result.LastNumber != 5 {
		t.Errorf("rebuild range = [%d..%d], want [1..5]", result.FirstNumber, result.LastNumber)
	}

	report, err := svc.ValidateIntegrity(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Valid {
		t.Errorf("pool should be valid after rebuild, issues: %v", report.Issues)
	}

	// Completion order decides numbering: alice completed first.
	aliceTickets, err := svc.GetTicketsByEntry(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(aliceTickets) != 2 || aliceTickets[0].Number != 1 || aliceTickets[1].Number != 2 {
		t.Errorf("alice tickets after rebuild = %v, want numbers 1 and 2", ticketNumbers(aliceTickets))
	}
	bobTickets, err := svc.GetTicketsByEntry(ctx, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(bobTickets) != 3 || bobTickets[0].Number != 3 || bobTickets[2].Number != 5 {
		t.Errorf("bob tickets after rebuild = %v, want numbers 3..5", ticketNumbers(bobTickets))
	}
}

func TestRebuildAllTicketsEmpty(t *testing.T) {
	svc, _, _ := newTicketFixture()

	result, err := svc.RebuildAllTickets(context.Background())
	if err != nil {
		t.Fatalf("RebuildAllTickets on empty state error: %v", err)
	}
	if result.TicketsDeleted != 0 || result.TicketsCreated != 0 {
		t.Errorf("rebuild = deleted %d, created %d, want 0 and 0",
			result.TicketsDeleted, result.TicketsCreated)
	}
}

func ticketNumbers(tickets []*models.Ticket) []int {
	nums := make([]int, len(tickets))
	for i, t := range tickets {
		nums[i] = t.Number
	}
	return nums
}
