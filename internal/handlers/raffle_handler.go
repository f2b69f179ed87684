package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RaffleHandler handles raffle configuration endpoints
type RaffleHandler struct {
	raffleService services.RaffleService
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffleService services.RaffleService) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffleService,
	}
}

// CreateRaffleRequest is the payload for creating a raffle.
type CreateRaffleRequest struct {
	Name        string    `json:"name" binding:"required"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	TicketPrice float64   `json:"ticketPrice"`
	MaxWinners  int       `json:"maxWinners"`
}

// CreateRaffle handles POST /api/v1/raffles
func (h *RaffleHandler) CreateRaffle(c *gin.Context) {
	var req CreateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := &models.RaffleConfig{
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TicketPrice: req.TicketPrice,
		MaxWinners:  req.MaxWinners,
	}

	created, err := h.raffleService.CreateRaffle(c.Request.Context(), cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetRaffleByID handles GET /api/v1/raffles/:id
func (h *RaffleHandler) GetRaffleByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID"})
		return
	}

	cfg, err := h.raffleService.GetRaffleByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve raffle"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// GetActiveRaffle handles GET /api/v1/raffles/active
func (h *RaffleHandler) GetActiveRaffle(c *gin.Context) {
	cfg, err := h.raffleService.GetActiveRaffle(c.Request.Context())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active raffle"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve active raffle"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// UpdateRaffleRequest is the payload for updating a raffle.
type UpdateRaffleRequest struct {
	Name        *string    `json:"name"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	TicketPrice *float64   `json:"ticketPrice"`
	MaxWinners  *int       `json:"maxWinners"`
}

// UpdateRaffle handles PUT /api/v1/raffles/:id
func (h *RaffleHandler) UpdateRaffle(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID"})
		return
	}

	var req UpdateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.raffleService.GetRaffleByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve raffle"})
		return
	}

	if req.Name != nil {
		cfg.Name = *req.Name
	}
	if req.StartDate != nil {
		cfg.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		cfg.EndDate = *req.EndDate
	}
	if req.TicketPrice != nil {
		cfg.TicketPrice = *req.TicketPrice
	}
	if req.MaxWinners != nil {
		cfg.MaxWinners = *req.MaxWinners
	}

	if err := h.raffleService.UpdateRaffle(c.Request.Context(), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update raffle"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// ReconcileTotalEntries handles POST /api/v1/raffles/:id/reconcile
func (h *RaffleHandler) ReconcileTotalEntries(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID"})
		return
	}

	cfg, err := h.raffleService.ReconcileTotalEntries(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile entries"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}
