package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/config"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/handlers"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/middleware"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Entry        *handlers.EntryHandler
	Ticket       *handlers.TicketHandler
	Winner       *handlers.WinnerHandler
	Raffle       *handlers.RaffleHandler
	Notification *handlers.NotificationHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h *Handlers) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
		}

		// Storefront entry creation and payment provider callbacks
		public.POST("/entries", h.Entry.CreateEntry)
		payments := public.Group("/payments")
		{
			payments.POST("/completed", h.Entry.PaymentCompleted)
			payments.POST("/failed", h.Entry.PaymentFailed)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		// Entry routes
		entries := protected.Group("/entries")
		{
			entries.GET("/count", h.Entry.GetEntryCount)
			entries.GET("/:id", h.Entry.GetEntryByID)
			entries.GET("/email/:email", h.Entry.GetEntriesByEmail)
			entries.GET("/status/:status", h.Entry.GetEntriesByStatus)
		}

		// Ticket routes
		tickets := protected.Group("/tickets")
		{
			tickets.GET("/entry/:entryId", h.Ticket.GetTicketsByEntry)
			tickets.POST("/assign/:entryId", h.Ticket.AssignTickets)
			tickets.POST("/rebuild", h.Ticket.RebuildAllTickets)
			tickets.GET("/integrity", h.Ticket.ValidateIntegrity)
		}

		// Raffle routes
		raffles := protected.Group("/raffles")
		{
			raffles.GET("/active", h.Raffle.GetActiveRaffle)
			raffles.GET("/:id", h.Raffle.GetRaffleByID)
			raffles.POST("", h.Raffle.CreateRaffle)
			raffles.PUT("/:id", h.Raffle.UpdateRaffle)
			raffles.POST("/:id/reconcile", h.Raffle.ReconcileTotalEntries)
			raffles.POST("/:id/draw", h.Winner.SelectWinner)
			raffles.POST("/:id/reset-winners", h.Winner.ResetWinners)
			raffles.GET("/:id/selection-state", h.Winner.GetSelectionState)
			raffles.GET("/:id/winners", h.Winner.GetWinnersByRaffle)
		}

		// Winner record routes
		winners := protected.Group("/winners")
		{
			winners.GET("/:id", h.Winner.GetWinnerRecord)
			winners.GET("/:id/verify", h.Winner.VerifyWinner)
			winners.POST("/:id/contacted", h.Winner.MarkContacted)
			winners.POST("/:id/prize-delivered", h.Winner.MarkPrizeDelivered)
		}

		// Notification routes
		notifications := protected.Group("/notifications")
		{
			notifications.GET("/count", h.Notification.GetNotificationCount)
			notifications.GET("/status/:status", h.Notification.GetNotificationsByStatus)
		}
	}

	return router
}
