package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/dlotsss/brondau-server/internal/transport/middleware"
)

func InitRoutes(restaurantHandler *RestaurantHandler, bookingHandler *BookingHandler, subscriptionHandler *SubscriptionHandler) *gin.Engine {

	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	// API routes
	api := router.Group("/api/v1")
	{
		// Restaurant routes
		restaurants := api.Group("/restaurants")
		{
			restaurants.POST("", restaurantHandler.CreateRestaurant)
			restaurants.GET("", restaurantHandler.GetAllRestaurants)
			restaurants.GET("/:id", restaurantHandler.GetRestaurant)
			restaurants.PATCH("/:id/layout", restaurantHandler.UpdateLayout)
			restaurants.PATCH("/:id/hours", restaurantHandler.UpdateHours)

			restaurants.GET("/:id/bookings", bookingHandler.GetRestaurantBookings)
			restaurants.POST("/:id/bookings", bookingHandler.SubmitBooking)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.PATCH("/:id/status", bookingHandler.UpdateStatus)
		}

		// Subscription routes
		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.POST("", subscriptionHandler.Subscribe)
			subscriptions.DELETE("", subscriptionHandler.Unsubscribe)
		}

		// Admin routes
		admin := api.Group("/admin")
		{
			admin.POST("/restaurants/:id/bookings", bookingHandler.SubmitStaffBooking)
			admin.POST("/bookings/sweep", bookingHandler.SweepExpired)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": gin.H{"time": "server is running"},
		})
	})

	return router
}
