package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WinnerHandler handles winner selection HTTP requests
type WinnerHandler struct {
	winnerService services.WinnerService
}

// NewWinnerHandler creates a new WinnerHandler
func NewWinnerHandler(winnerService services.WinnerService) *WinnerHandler {
	return &WinnerHandler{
		winnerService: winnerService,
	}
}

// SelectWinner handles POST /raffles/:id/draw
func (h *WinnerHandler) SelectWinner(c *gin.Context) {
	raffleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID format"})
		return
	}

	result, err := h.winnerService.SelectWinner(c.Request.Context(), raffleID)
	if err != nil {
		var integrityErr *services.TicketIntegrityError
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
		case errors.Is(err, services.ErrAllWinnersSelected):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &integrityErr):
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Ticket pool failed integrity check; rebuild tickets before drawing",
				"issues": integrityErr.Issues,
			})
		case errors.Is(err, services.ErrEmptyPool), errors.Is(err, services.ErrNoAvailableTickets):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select winner: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetWinnerRecord handles GET /winners/:id
func (h *WinnerHandler) GetWinnerRecord(c *gin.Context) {
	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid winner record ID format"})
		return
	}

	record, err := h.winnerService.GetWinnerRecord(c.Request.Context(), recordID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Winner record not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve winner record: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, record)
}

// VerifyWinner handles GET /winners/:id/verify
func (h *WinnerHandler) VerifyWinner(c *gin.Context) {
	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid winner record ID format"})
		return
	}

	result, err := h.winnerService.Verify(c.Request.Context(), recordID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Winner record not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify winner record: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetWinnersByRaffle handles GET /raffles/:id/winners
func (h *WinnerHandler) GetWinnersByRaffle(c *gin.Context) {
	raffleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID format"})
		return
	}
	winners, err := h.winnerService.GetWinnersByRaffle(c.Request.Context(), raffleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve winners: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, winners)
}

// GetSelectionState handles GET /raffles/:id/selection-state
func (h *WinnerHandler) GetSelectionState(c *gin.Context) {
	raffleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID format"})
		return
	}
	state, active, max, err := h.winnerService.GetSelectionState(c.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get selection state: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":         state,
		"activeWinners": active,
		"maxWinners":    max,
	})
}

// ResetWinners handles POST /raffles/:id/reset-winners. Destructive; the
// caller must send {"confirm": true}.
type ResetWinnersRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *WinnerHandler) ResetWinners(c *gin.Context) {
	raffleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID format"})
		return
	}
	var request ResetWinnersRequest
	if err := c.ShouldBindJSON(&request); err != nil || !request.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset must be explicitly confirmed"})
		return
	}

	superseded, err := h.winnerService.ResetWinners(c.Request.Context(), raffleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset winners: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Winners reset", "superseded": superseded})
}

// MarkContacted handles POST /winners/:id/contacted
func (h *WinnerHandler) MarkContacted(c *gin.Context) {
	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid winner record ID format"})
		return
	}
	if err := h.winnerService.MarkContacted(c.Request.Context(), recordID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark winner contacted: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Winner marked contacted"})
}

// MarkPrizeDelivered handles POST /winners/:id/prize-delivered
func (h *WinnerHandler) MarkPrizeDelivered(c *gin.Context) {
	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid winner record ID format"})
		return
	}
	if err := h.winnerService.MarkPrizeDelivered(c.Request.Context(), recordID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark prize delivered: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prize delivery recorded"})
}
