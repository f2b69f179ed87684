package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EntryHandler handles entry and payment-event HTTP requests
type EntryHandler struct {
	entryService services.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService services.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
	}
}

func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit
}

// CreateEntry handles POST /entries
type CreateEntryRequest struct {
	RaffleID   string  `json:"raffle_id" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Quantity   int     `json:"quantity" binding:"required,min=1"`
	AmountPaid float64 `json:"amount_paid"`
	ProductID  string  `json:"product_id" binding:"required"`
}

func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var request CreateEntryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	raffleID, err := primitive.ObjectIDFromHex(request.RaffleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID format"})
		return
	}

	entry := &models.Entry{
		RaffleID:   raffleID,
		Email:      request.Email,
		Quantity:   request.Quantity,
		AmountPaid: request.AmountPaid,
		ProductID:  request.ProductID,
	}
	created, err := h.entryService.CreateEntry(c.Request.Context(), entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PaymentCompleted handles POST /payments/completed. This is the trusted
// payment-processor callback; a repeated confirmation is a no-op.
type PaymentCompletedRequest struct {
	EntryID    string `json:"entry_id" binding:"required"`
	PaymentRef string `json:"payment_ref" binding:"required"`
}

func (h *EntryHandler) PaymentCompleted(c *gin.Context) {
	var request PaymentCompletedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entryID, err := primitive.ObjectIDFromHex(request.EntryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
		return
	}

	result, err := h.entryService.HandlePaymentCompleted(c.Request.Context(), entryID, request.PaymentRef)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment completion: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// PaymentFailed handles POST /payments/failed
type PaymentFailedRequest struct {
	EntryID string `json:"entry_id" binding:"required"`
	Reason  string `json:"reason"`
}

func (h *EntryHandler) PaymentFailed(c *gin.Context) {
	var request PaymentFailedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entryID, err := primitive.ObjectIDFromHex(request.EntryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
		return
	}

	if err := h.entryService.HandlePaymentFailed(c.Request.Context(), entryID, request.Reason); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment failure: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment failure recorded"})
}

// GetEntryByID handles GET /entries/:id
func (h *EntryHandler) GetEntryByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	entry, err := h.entryService.GetEntryByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetEntriesByEmail handles GET /entries/email/:email
func (h *EntryHandler) GetEntriesByEmail(c *gin.Context) {
	page, limit := paginationParams(c)
	entries, err := h.entryService.GetEntriesByEmail(c.Request.Context(), c.Param("email"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entries: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetEntriesByStatus handles GET /entries/status/:status
func (h *EntryHandler) GetEntriesByStatus(c *gin.Context) {
	status := models.PaymentStatus(c.Param("status"))
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusCompleted,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment status"})
		return
	}

	page, limit := paginationParams(c)
	entries, err := h.entryService.GetEntriesByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entries: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetEntryCount handles GET /entries/count
func (h *EntryHandler) GetEntryCount(c *gin.Context) {
	count, err := h.entryService.GetEntryCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count entries: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
