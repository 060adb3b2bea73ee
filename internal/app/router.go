package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rental/internal/handler"
	"rental/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CarHandler        *handler.CarHandler
	BookingHandler    *handler.BookingHandler
	PaymentHandler    *handler.PaymentHandler
	InspectionHandler *handler.InspectionHandler
	UserHandler       *handler.UserHandler
	RoleResolver      middleware.RoleResolver
	RedisClient       *redis.Client
	NewRelicApp       *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	router.Use(middleware.Identity(deps.RoleResolver))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Catalog routes. Browsing is public; mutations are admin-only.
		cars := v1.Group("/cars")
		{
			cars.GET("", deps.CarHandler.ListCars)
			cars.GET("/:id", deps.CarHandler.GetCar)
			cars.POST("", middleware.RequireAdmin(), deps.CarHandler.CreateCar)
			cars.PATCH("/:id", middleware.RequireAdmin(), deps.CarHandler.UpdateCar)
			cars.DELETE("/:id", middleware.RequireAdmin(), deps.CarHandler.DeleteCar)
			cars.POST("/:id/image", middleware.RequireAdmin(), deps.CarHandler.UploadCarImage)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", middleware.RequireAuth(), deps.BookingHandler.CreateBooking)
			bookings.GET("", middleware.RequireAdmin(), deps.BookingHandler.ListBookings)
			bookings.GET("/me", middleware.RequireAuth(), deps.BookingHandler.ListMyBookings)
			bookings.GET("/:id", middleware.RequireAuth(), deps.BookingHandler.GetBooking)
			bookings.POST("/:id/confirm", middleware.RequireAdmin(), deps.BookingHandler.ConfirmBooking)
			bookings.POST("/:id/cancel", middleware.RequireAuth(), deps.BookingHandler.CancelBooking)

			// Payment ledger per booking.
			bookings.POST("/:id/payments", middleware.RequireAuth(), deps.PaymentHandler.SubmitPayment)
			bookings.GET("/:id/payments", middleware.RequireAuth(), deps.PaymentHandler.GetPayments)

			// Inspection routes.
			bookings.POST("/:id/pickup", middleware.RequireAdmin(), deps.InspectionHandler.RecordPickup)
			bookings.POST("/:id/return", middleware.RequireAdmin(), deps.InspectionHandler.RecordReturn)
			bookings.GET("/:id/inspections", middleware.RequireAdmin(), deps.InspectionHandler.GetInspections)
		}

		// Payment verification.
		payments := v1.Group("/payments")
		{
			payments.POST("/:id/verify", middleware.RequireAdmin(), deps.PaymentHandler.VerifyPayment)
		}

		// Identity routes.
		users := v1.Group("/users")
		{
			users.POST("", deps.UserHandler.Register)
			users.GET("", middleware.RequireAdmin(), deps.UserHandler.ListUsers)
			users.GET("/me/role", middleware.RequireAuth(), deps.UserHandler.GetMyRole)
			users.POST("/me/signout", middleware.RequireAuth(), deps.UserHandler.SignOut)
		}
	}

	return router
}
