package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories/memory"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type winnerFixture struct {
	svc        *WinnerServiceImpl
	ticketSvc  *TicketServiceImpl
	entryRepo  *memory.EntryRepository
	ticketRepo *memory.TicketRepository
	winnerRepo *memory.WinnerRecordRepository
	raffleRepo *memory.RaffleConfigRepository
	raffle     *models.RaffleConfig
}

func newWinnerFixture(t *testing.T, maxWinners int) *winnerFixture {
	t.Helper()
	entryRepo := memory.NewEntryRepository()
	ticketRepo := memory.NewTicketRepository()
	winnerRepo := memory.NewWinnerRecordRepository()
	raffleRepo := memory.NewRaffleConfigRepository()
	ticketSvc := NewTicketService(entryRepo, ticketRepo)
	svc := NewWinnerService(raffleRepo, entryRepo, ticketRepo, winnerRepo, ticketSvc, nil)

	raffle := &models.RaffleConfig{
		Name:       "Test Raffle",
		StartDate:  time.Now().Add(-time.Hour),
		EndDate:    time.Now().Add(time.Hour),
		MaxWinners: maxWinners,
	}
	if err := raffleRepo.Create(context.Background(), raffle); err != nil {
		t.Fatal(err)
	}
	return &winnerFixture{
		svc:        svc,
		ticketSvc:  ticketSvc,
		entryRepo:  entryRepo,
		ticketRepo: ticketRepo,
		winnerRepo: winnerRepo,
		raffleRepo: raffleRepo,
		raffle:     raffle,
	}
}

// addEntry creates a completed entry for the fixture raffle and mints its tickets.
func (f *winnerFixture) addEntry(t *testing.T, email string, quantity int) *models.Entry {
	t.Helper()
	entry := &models.Entry{
		RaffleID:      f.raffle.ID,
		Email:         email,
		Quantity:      quantity,
		PaymentStatus: models.PaymentStatusCompleted,
		CompletedAt:   time.Now(),
	}
	if err := f.entryRepo.Create(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, err := f.ticketSvc.AssignTickets(context.Background(), entry.ID); err != nil {
		t.Fatalf("failed to assign tickets: %v", err)
	}
	return entry
}

func TestSelectWinnerHappyPath(t *testing.T) {
	f := newWinnerFixture(t, 1)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 3)
	f.addEntry(t, "bob@example.com", 2)

	result, err := f.svc.SelectWinner(ctx, f.raffle.ID)
	if err != nil {
		t.Fatalf("SelectWinner error: %v", err)
	}

	if result.WinningTicketNumber < 1 || result.WinningTicketNumber > 5 {
		t.Errorf("winning ticket = %d, want within [1..5]", result.WinningTicketNumber)
	}
	if result.PoolSize != 5 {
		t.Errorf("pool size = %d, want 5", result.PoolSize)
	}
	if result.Email != "alice@example.com" && result.Email != "bob@example.com" {
		t.Errorf("winner email = %q, want one of the two buyers", result.Email)
	}
	if result.RandomSeed == "" || result.VerificationHash == "" {
		t.Error("draw result must carry a seed and a verification hash")
	}
	if result.WinnerIndex != 1 || result.RemainingSlots != 0 {
		t.Errorf("winner index/slots = %d/%d, want 1/0", result.WinnerIndex, result.RemainingSlots)
	}

	// The winning ticket must belong to the reported winner.
	ticket, err := f.ticketRepo.FindByNumber(ctx, result.WinningTicketNumber)
	if err != nil {
		t.Fatal(err)
	}
	if ticket.Email != result.Email {
		t.Errorf("ticket %d belongs to %q, result says %q", ticket.Number, ticket.Email, result.Email)
	}

	// First winner mirrors onto the raffle config.
	cfg, err := f.raffleRepo.FindByID(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WinnerEmail != result.Email {
		t.Errorf("raffle winner mirror = %q, want %q", cfg.WinnerEmail, result.Email)
	}
	if cfg.WinnerDrawnAt.IsZero() {
		t.Error("raffle WinnerDrawnAt should be stamped")
	}
}

func TestSelectWinnerRefusesWhenSlotsFull(t *testing.T) {
	f := newWinnerFixture(t, 1)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 2)

	if _, err := f.svc.SelectWinner(ctx, f.raffle.ID); err != nil {
		t.Fatalf("first draw error: %v", err)
	}
	_, err := f.svc.SelectWinner(ctx, f.raffle.ID)
	if !errors.Is(err, ErrAllWinnersSelected) {
		t.Errorf("second draw error = %v, want ErrAllWinnersSelected", err)
	}
}

func TestSelectWinnerNeverRepeatsTicket(t *testing.T) {
	// Pool of 4 tickets, 4 winner slots: each draw must land on a fresh ticket.
	f := newWinnerFixture(t, 4)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 2)
	f.addEntry(t, "bob@example.com", 2)

	drawn := make(map[int]bool)
	for i := 0; i < 4; i++ {
		result, err := f.svc.SelectWinner(ctx, f.raffle.ID)
		if err != nil {
			t.Fatalf("draw %d error: %v", i+1, err)
		}
		if drawn[result.WinningTicketNumber] {
			t.Fatalf("ticket %d drawn twice", result.WinningTicketNumber)
		}
		drawn[result.WinningTicketNumber] = true
		if result.WinnerIndex != i+1 {
			t.Errorf("draw %d winner index = %d", i+1, result.WinnerIndex)
		}
	}

	// Slots and tickets both exhausted.
	if _, err := f.svc.SelectWinner(ctx, f.raffle.ID); !errors.Is(err, ErrAllWinnersSelected) {
		t.Errorf("exhausted draw error = %v, want ErrAllWinnersSelected", err)
	}
}

func TestSelectWinnerNoAvailableTickets(t *testing.T) {
	// More slots than tickets: the pool runs out before the slots do.
	f := newWinnerFixture(t, 3)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 2)

	for i := 0; i < 2; i++ {
		if _, err := f.svc.SelectWinner(ctx, f.raffle.ID); err != nil {
			t.Fatalf("draw %d error: %v", i+1, err)
		}
	}
	if _, err := f.svc.SelectWinner(ctx, f.raffle.ID); !errors.Is(err, ErrNoAvailableTickets) {
		t.Errorf("third draw error = %v, want ErrNoAvailableTickets", err)
	}
}

func TestSelectWinnerEmptyPool(t *testing.T) {
	f := newWinnerFixture(t, 1)

	_, err := f.svc.SelectWinner(context.Background(), f.raffle.ID)
	if !errors.Is(err, ErrEmptyPool) {
		t.Errorf("draw on empty pool error = %v, want ErrEmptyPool", err)
	}
}

func TestSelectWinnerRefusesCorruptPool(t *testing.T) {
	f := newWinnerFixture(t, 1)
	ctx := context.Background()

	entry := &models.Entry{
		RaffleID:      f.raffle.ID,
		Email:         "alice@example.com",
		Quantity:      3,
		PaymentStatus: models.PaymentStatusCompleted,
		CompletedAt:   time.Now(),
	}
	if err := f.entryRepo.Create(ctx, entry); err != nil {
		t.Fatal(err)
	}
	// Mint a gapped pool by hand: 1, 2, 4.
	corrupt := []*models.Ticket{
		{RaffleID: f.raffle.ID, EntryID: entry.ID, Email: entry.Email, Number: 1},
		{RaffleID: f.raffle.ID, EntryID: entry.ID, Email: entry.Email, Number: 2},
		{RaffleID: f.raffle.ID, EntryID: entry.ID, Email: entry.Email, Number: 4},
	}
	if err := f.ticketRepo.CreateMany(ctx, corrupt); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.SelectWinner(ctx, f.raffle.ID)
	var integrityErr *TicketIntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("draw over corrupt pool error = %v, want TicketIntegrityError", err)
	}
	if len(integrityErr.Issues) == 0 {
		t.Error("integrity error should carry issues")
	}

	// A rebuild restores the pool and the draw goes through.
	if _, err := f.ticketSvc.RebuildAllTickets(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SelectWinner(ctx, f.raffle.ID); err != nil {
		t.Errorf("draw after rebuild error: %v", err)
	}
}

func TestSelectWinnerDanglingEntry(t *testing.T) {
	f := newWinnerFixture(t, 1)
	ctx := context.Background()

	// A clean 1..2 pool whose tickets reference an entry that never existed,
	// while a real completed entry keeps the conservation count matching.
	ghost := primitive.NewObjectID()
	entry := &models.Entry{
		RaffleID:      f.raffle.ID,
		Email:         "alice@example.com",
		Quantity:      2,
		PaymentStatus: models.PaymentStatusCompleted,
		CompletedAt:   time.Now(),
	}
	if err := f.entryRepo.Create(ctx, entry); err != nil {
		t.Fatal(err)
	}
	tickets := []*models.Ticket{
		{RaffleID: f.raffle.ID, EntryID: ghost, Email: "ghost@example.com", Number: 1},
		{RaffleID: f.raffle.ID, EntryID: ghost, Email: "ghost@example.com", Number: 2},
	}
	if err := f.ticketRepo.CreateMany(ctx, tickets); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.SelectWinner(ctx, f.raffle.ID)
	if !errors.Is(err, ErrDataCorruption) {
		t.Errorf("draw over dangling tickets error = %v, want ErrDataCorruption", err)
	}
}

func TestComputeVerificationHashDeterministic(t *testing.T) {
	h1 := ComputeVerificationHash(7, 100, "seed-a", "alice@example.com")
	h2 := ComputeVerificationHash(7, 100, "seed-a", "alice@example.com")
	if h1 != h2 {
		t.Error("hash must be deterministic for identical inputs")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex characters", len(h1))
	}
	if h1 == ComputeVerificationHash(8, 100, "seed-a", "alice@example.com") {
		t.Error("hash must change when the ticket number changes")
	}
	if h1 == ComputeVerificationHash(7, 100, "seed-b", "alice@example.com") {
		t.Error("hash must change when the seed changes")
	}
}

func TestVerifyWinnerRecord(t *testing.T) {
	f := newWinnerFixture(t, 1)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 3)
	f.addEntry(t, "bob@example.com", 2)

	result, err := f.svc.SelectWinner(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}

	verification, err := f.svc.Verify(ctx, result.WinnerRecordID)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !verification.IsValid {
		t.Error("freshly drawn record should verify")
	}
	if verification.ExpectedHash != verification.StoredHash {
		t.Error("expected and stored hashes should match for an untouched record")
	}

	wantCount := 3
	wantProb := 60.0
	if result.Email == "bob@example.com" {
		wantCount = 2
		wantProb = 40.0
	}
	if verification.WinnerTicketCount != wantCount {
		t.Errorf("winner ticket count = %d, want %d", verification.WinnerTicketCount, wantCount)
	}
	if math.Abs(verification.WinProbability-wantProb) > 1e-9 {
		t.Errorf("win probability = %v, want %v", verification.WinProbability, wantProb)
	}
}

func TestVerifyDetectsTamperedRecord(t *testing.T) {
	f := newWinnerFixture(t, 1)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 2)
	result, err := f.svc.SelectWinner(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}

	record, err := f.winnerRepo.FindByID(ctx, result.WinnerRecordID)
	if err != nil {
		t.Fatal(err)
	}
	record.PoolSizeAtDraw = record.PoolSizeAtDraw + 10
	if err := f.winnerRepo.Update(ctx, record); err != nil {
		t.Fatal(err)
	}

	verification, err := f.svc.Verify(ctx, result.WinnerRecordID)
	if err != nil {
		t.Fatal(err)
	}
	if verification.IsValid {
		t.Error("tampered record should fail verification")
	}
}

func TestResetWinners(t *testing.T) {
	f := newWinnerFixture(t, 2)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 3)

	for i := 0; i < 2; i++ {
		if _, err := f.svc.SelectWinner(ctx, f.raffle.ID); err != nil {
			t.Fatalf("draw %d error: %v", i+1, err)
		}
	}

	superseded, err := f.svc.ResetWinners(ctx, f.raffle.ID)
	if err != nil {
		t.Fatalf("ResetWinners error: %v", err)
	}
	if superseded != 2 {
		t.Errorf("superseded = %d, want 2", superseded)
	}

	state, active, _, err := f.svc.GetSelectionState(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state != models.SelectionStateNoWinnersYet || active != 0 {
		t.Errorf("state after reset = %s with %d active, want NO_WINNERS_YET with 0", state, active)
	}

	cfg, err := f.raffleRepo.FindByID(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WinnerEmail != "" || !cfg.WinnerDrawnAt.IsZero() {
		t.Error("raffle winner mirror should be cleared after reset")
	}

	// Superseded records stay in history.
	records, err := f.svc.GetWinnersByRaffle(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("history length = %d, want 2", len(records))
	}
	for _, r := range records {
		if r.Status != models.WinnerStatusSuperseded {
			t.Errorf("record %s status = %s, want SUPERSEDED", r.ID.Hex(), r.Status)
		}
	}

	// The raffle can draw again after the reset.
	if _, err := f.svc.SelectWinner(ctx, f.raffle.ID); err != nil {
		t.Errorf("draw after reset error: %v", err)
	}
}

func TestSelectionStateProgression(t *testing.T) {
	f := newWinnerFixture(t, 2)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 4)

	state, active, max, err := f.svc.GetSelectionState(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state != models.SelectionStateNoWinnersYet || active != 0 || max != 2 {
		t.Errorf("initial state = %s %d/%d, want NO_WINNERS_YET 0/2", state, active, max)
	}

	if _, err := f.svc.SelectWinner(ctx, f.raffle.ID); err != nil {
		t.Fatal(err)
	}
	state, active, _, err = f.svc.GetSelectionState(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state != models.SelectionStatePartiallySelected || active != 1 {
		t.Errorf("after one draw state = %s with %d active, want PARTIALLY_SELECTED with 1", state, active)
	}

	if _, err := f.svc.SelectWinner(ctx, f.raffle.ID); err != nil {
		t.Fatal(err)
	}
	state, active, _, err = f.svc.GetSelectionState(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state != models.SelectionStateComplete || active != 2 {
		t.Errorf("final state = %s with %d active, want COMPLETE with 2", state, active)
	}
}

func TestMarkContactedAndDelivered(t *testing.T) {
	f := newWinnerFixture(t, 1)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 1)
	result, err := f.svc.SelectWinner(ctx, f.raffle.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.MarkContacted(ctx, result.WinnerRecordID); err != nil {
		t.Fatalf("MarkContacted error: %v", err)
	}
	if err := f.svc.MarkPrizeDelivered(ctx, result.WinnerRecordID); err != nil {
		t.Fatalf("MarkPrizeDelivered error: %v", err)
	}

	record, err := f.winnerRepo.FindByID(ctx, result.WinnerRecordID)
	if err != nil {
		t.Fatal(err)
	}
	if record.ContactedAt.IsZero() || record.PrizeDeliveredAt.IsZero() {
		t.Error("contact and delivery timestamps should be stamped")
	}
}

func TestSelectWinnerFrequencies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping frequency test in short mode")
	}
	// Alice holds 3 of 5 tickets. Over many draw/reset cycles her win rate
	// must approach 60%.
	f := newWinnerFixture(t, 1)
	ctx := context.Background()

	f.addEntry(t, "alice@example.com", 3)
	f.addEntry(t, "bob@example.com", 2)

	const trials = 10000
	aliceWins := 0
	for i := 0; i < trials; i++ {
		result, err := f.svc.SelectWinner(ctx, f.raffle.ID)
		if err != nil {
			t.Fatalf("trial %d draw error: %v", i, err)
		}
		if result.Email == "alice@example.com" {
			aliceWins++
		}
		if _, err := f.svc.ResetWinners(ctx, f.raffle.ID); err != nil {
			t.Fatalf("trial %d reset error: %v", i, err)
		}
	}

	rate := float64(aliceWins) / float64(trials)
	if math.Abs(rate-0.6) > 0.04 {
		t.Errorf("alice win rate = %.3f over %d trials, want 0.60 +/- 0.04", rate, trials)
	}
}
