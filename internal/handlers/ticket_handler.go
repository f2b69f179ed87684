package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TicketHandler handles ticket allocation HTTP requests
type TicketHandler struct {
	ticketService services.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService services.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// AssignTickets handles POST /tickets/assign/:entryId
func (h *TicketHandler) AssignTickets(c *gin.Context) {
	entryID, err := primitive.ObjectIDFromHex(c.Param("entryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
		return
	}

	result, err := h.ticketService.AssignTickets(c.Request.Context(), entryID)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		case errors.Is(err, services.ErrEntryNotCompleted), errors.Is(err, services.ErrDirectPurchase):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign tickets: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// RebuildAllTickets handles POST /tickets/rebuild
func (h *TicketHandler) RebuildAllTickets(c *gin.Context) {
	result, err := h.ticketService.RebuildAllTickets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rebuild tickets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ValidateIntegrity handles GET /tickets/integrity
func (h *TicketHandler) ValidateIntegrity(c *gin.Context) {
	report, err := h.ticketService.ValidateIntegrity(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run integrity check: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetTicketsByEntry handles GET /tickets/entry/:entryId
func (h *TicketHandler) GetTicketsByEntry(c *gin.Context) {
	entryID, err := primitive.ObjectIDFromHex(c.Param("entryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
		return
	}
	tickets, err := h.ticketService.GetTicketsByEntry(c.Request.Context(), entryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tickets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, tickets)
}
