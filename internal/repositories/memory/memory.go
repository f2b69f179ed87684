// Package memory holds in-memory implementations of the repository
// interfaces. They back the service tests and local development without a
// MongoDB instance, and return mongo.ErrNoDocuments for missing documents so
// callers handle both implementations identically.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EntryRepository is an in-memory repositories.EntryRepository
type EntryRepository struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]*models.Entry
}

// NewEntryRepository creates a new in-memory EntryRepository
func NewEntryRepository() *EntryRepository {
	return &EntryRepository{entries: make(map[primitive.ObjectID]*models.Entry)}
}

var _ repositories.EntryRepository = (*EntryRepository)(nil)

func cloneEntry(e *models.Entry) *models.Entry {
	c := *e
	return &c
}

func (r *EntryRepository) Create(_ context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.Email = models.NormalizeEmail(entry.Email)
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	r.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (r *EntryRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneEntry(entry), nil
}

func (r *EntryRepository) FindByPaymentRef(_ context.Context, ref string) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.PaymentRef == ref {
			return cloneEntry(entry), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *EntryRepository) FindByEmail(_ context.Context, email string, page, limit int) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = models.NormalizeEmail(email)
	var out []*models.Entry
	for _, entry := range r.entries {
		if entry.Email == email {
			out = append(out, cloneEntry(entry))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginateEntries(out, page, limit), nil
}

func (r *EntryRepository) FindByStatus(_ context.Context, status models.PaymentStatus, page, limit int) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Entry
	for _, entry := range r.entries {
		if entry.PaymentStatus == status {
			out = append(out, cloneEntry(entry))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginateEntries(out, page, limit), nil
}

func (r *EntryRepository) FindCompletedRaffleEntries(_ context.Context) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Entry
	for _, entry := range r.entries {
		if entry.PaymentStatus == models.PaymentStatusCompleted && !entry.DirectPurchase {
			out = append(out, cloneEntry(entry))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (r *EntryRepository) SumCompletedRaffleQuantity(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, entry := range r.entries {
		if entry.PaymentStatus == models.PaymentStatusCompleted && !entry.DirectPurchase {
			total += entry.Quantity
		}
	}
	return total, nil
}

func (r *EntryRepository) Update(_ context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	entry.UpdatedAt = time.Now()
	r.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (r *EntryRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

func paginateEntries(entries []*models.Entry, page, limit int) []*models.Entry {
	if limit <= 0 {
		return entries
	}
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(entries) {
		return nil
	}
	end := start + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

// TicketRepository is an in-memory repositories.TicketRepository
type TicketRepository struct {
	mu      sync.Mutex
	tickets []*models.Ticket
}

// NewTicketRepository creates a new in-memory TicketRepository
func NewTicketRepository() *TicketRepository {
	return &TicketRepository{}
}

var _ repositories.TicketRepository = (*TicketRepository)(nil)

func cloneTicket(t *models.Ticket) *models.Ticket {
	c := *t
	return &c
}

func (r *TicketRepository) CreateMany(_ context.Context, tickets []*models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range tickets {
		if t.ID.IsZero() {
			t.ID = primitive.NewObjectID()
		}
		t.CreatedAt = now
		r.tickets = append(r.tickets, cloneTicket(t))
	}
	return nil
}

func (r *TicketRepository) FindByEntryID(_ context.Context, entryID primitive.ObjectID) ([]*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Ticket
	for _, t := range r.tickets {
		if t.EntryID == entryID {
			out = append(out, cloneTicket(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *TicketRepository) CountByEntryID(_ context.Context, entryID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tickets {
		if t.EntryID == entryID {
			n++
		}
	}
	return n, nil
}

func (r *TicketRepository) FindByNumber(_ context.Context, number int) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.Number == number {
			return cloneTicket(t), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *TicketRepository) FindAllSortedByNumber(_ context.Context) ([]*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		out = append(out, cloneTicket(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *TicketRepository) MaxNumber(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, t := range r.tickets {
		if t.Number > max {
			max = t.Number
		}
	}
	return max, nil
}

func (r *TicketRepository) CountByEmail(_ context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = models.NormalizeEmail(email)
	var n int64
	for _, t := range r.tickets {
		if t.Email == email {
			n++
		}
	}
	return n, nil
}

func (r *TicketRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.tickets)), nil
}

func (r *TicketRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.tickets))
	r.tickets = nil
	return n, nil
}

// WinnerRecordRepository is an in-memory repositories.WinnerRecordRepository
type WinnerRecordRepository struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*models.WinnerRecord
	order   []primitive.ObjectID
}

// NewWinnerRecordRepository creates a new in-memory WinnerRecordRepository
func NewWinnerRecordRepository() *WinnerRecordRepository {
	return &WinnerRecordRepository{records: make(map[primitive.ObjectID]*models.WinnerRecord)}
}

var _ repositories.WinnerRecordRepository = (*WinnerRecordRepository)(nil)

func cloneRecord(w *models.WinnerRecord) *models.WinnerRecord {
	c := *w
	return &c
}

func (r *WinnerRecordRepository) Create(_ context.Context, record *models.WinnerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	r.records[record.ID] = cloneRecord(record)
	r.order = append(r.order, record.ID)
	return nil
}

func (r *WinnerRecordRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.WinnerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneRecord(record), nil
}

func (r *WinnerRecordRepository) FindByRaffleID(_ context.Context, raffleID primitive.ObjectID) ([]*models.WinnerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WinnerRecord
	for i := len(r.order) - 1; i >= 0; i-- {
		record := r.records[r.order[i]]
		if record.RaffleID == raffleID {
			out = append(out, cloneRecord(record))
		}
	}
	return out, nil
}

func (r *WinnerRecordRepository) FindActiveByRaffleID(_ context.Context, raffleID primitive.ObjectID) ([]*models.WinnerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WinnerRecord
	for _, id := range r.order {
		record := r.records[id]
		if record.RaffleID == raffleID && record.Status == models.WinnerStatusActive {
			out = append(out, cloneRecord(record))
		}
	}
	return out, nil
}

func (r *WinnerRecordRepository) CountActiveByRaffleID(_ context.Context, raffleID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, record := range r.records {
		if record.RaffleID == raffleID && record.Status == models.WinnerStatusActive {
			n++
		}
	}
	return n, nil
}

func (r *WinnerRecordRepository) Update(_ context.Context, record *models.WinnerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	record.UpdatedAt = time.Now()
	r.records[record.ID] = cloneRecord(record)
	return nil
}

func (r *WinnerRecordRepository) SupersedeAllByRaffleID(_ context.Context, raffleID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, record := range r.records {
		if record.RaffleID == raffleID && record.Status == models.WinnerStatusActive {
			record.Status = models.WinnerStatusSuperseded
			record.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

// RaffleConfigRepository is an in-memory repositories.RaffleConfigRepository
type RaffleConfigRepository struct {
	mu      sync.Mutex
	configs map[primitive.ObjectID]*models.RaffleConfig
}

// NewRaffleConfigRepository creates a new in-memory RaffleConfigRepository
func NewRaffleConfigRepository() *RaffleConfigRepository {
	return &RaffleConfigRepository{configs: make(map[primitive.ObjectID]*models.RaffleConfig)}
}

var _ repositories.RaffleConfigRepository = (*RaffleConfigRepository)(nil)

func cloneConfig(c *models.RaffleConfig) *models.RaffleConfig {
	cc := *c
	return &cc
}

func (r *RaffleConfigRepository) Create(_ context.Context, cfg *models.RaffleConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
	}
	cfg.CreatedAt = time.Now()
	cfg.UpdatedAt = time.Now()
	r.configs[cfg.ID] = cloneConfig(cfg)
	return nil
}

func (r *RaffleConfigRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.RaffleConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneConfig(cfg), nil
}

func (r *RaffleConfigRepository) FindActive(_ context.Context) (*models.RaffleConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var active *models.RaffleConfig
	for _, cfg := range r.configs {
		if cfg.StartDate.After(now) || cfg.EndDate.Before(now) {
			continue
		}
		if active == nil || cfg.StartDate.After(active.StartDate) {
			active = cfg
		}
	}
	if active == nil {
		return nil, mongo.ErrNoDocuments
	}
	return cloneConfig(active), nil
}

func (r *RaffleConfigRepository) Update(_ context.Context, cfg *models.RaffleConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.configs[cfg.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	cfg.UpdatedAt = time.Now()
	r.configs[cfg.ID] = cloneConfig(cfg)
	return nil
}

// AdminUserRepository is an in-memory repositories.AdminUserRepository
type AdminUserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.AdminUser
}

// NewAdminUserRepository creates a new in-memory AdminUserRepository
func NewAdminUserRepository() *AdminUserRepository {
	return &AdminUserRepository{users: make(map[primitive.ObjectID]*models.AdminUser)}
}

var _ repositories.AdminUserRepository = (*AdminUserRepository)(nil)

func cloneAdmin(u *models.AdminUser) *models.AdminUser {
	c := *u
	return &c
}

func (r *AdminUserRepository) Create(_ context.Context, adminUser *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if adminUser.ID.IsZero() {
		adminUser.ID = primitive.NewObjectID()
	}
	adminUser.Email = models.NormalizeEmail(adminUser.Email)
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = time.Now()
	r.users[adminUser.ID] = cloneAdmin(adminUser)
	return nil
}

func (r *AdminUserRepository) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			return cloneAdmin(u), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *AdminUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneAdmin(u), nil
}

func (r *AdminUserRepository) Update(_ context.Context, adminUser *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[adminUser.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	adminUser.UpdatedAt = time.Now()
	r.users[adminUser.ID] = cloneAdmin(adminUser)
	return nil
}

// NotificationRepository is an in-memory repositories.NotificationRepository
type NotificationRepository struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

// NewNotificationRepository creates a new in-memory NotificationRepository
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func cloneNotification(n *models.Notification) *models.Notification {
	c := *n
	return &c
}

func (r *NotificationRepository) Create(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, cloneNotification(notification))
	return nil
}

func (r *NotificationRepository) FindByWinnerRecordID(_ context.Context, winnerRecordID primitive.ObjectID) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].WinnerRecordID == winnerRecordID {
			out = append(out, cloneNotification(r.notifications[i]))
		}
	}
	return out, nil
}

func (r *NotificationRepository) FindByStatus(_ context.Context, status models.NotificationStatus, page, limit int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].Status == status {
			out = append(out, cloneNotification(r.notifications[i]))
		}
	}
	if limit <= 0 {
		return out, nil
	}
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(out) {
		return nil, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *NotificationRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.notifications)), nil
}
