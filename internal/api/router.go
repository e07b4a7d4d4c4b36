package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ticketbari/ticketbari/internal/auth"
	"github.com/ticketbari/ticketbari/internal/model"
)

var transportTypes = map[string]bool{
	"bus":    true,
	"train":  true,
	"launch": true,
	"plane":  true,
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("transport", func(fl validator.FieldLevel) bool {
			return transportTypes[fl.Field().String()]
		})
	}
}

// NewRouter builds the HTTP surface: the public catalog, the
// authenticated user/vendor/admin groups, the GraphQL read API and the
// operational endpoints.
func NewRouter(s *Server, authService *auth.Service, graphql http.Handler, graphqlPath string) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), Observe())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if graphql != nil {
		r.POST(graphqlPath, gin.WrapH(graphql))
	}

	v1 := r.Group("/api/v1")

	// Public catalog and checkout callbacks.
	v1.POST("/auth/register", s.handleRegister)
	v1.POST("/auth/login", s.handleLogin)
	v1.POST("/auth/refresh", s.handleRefresh)
	v1.GET("/tickets", s.handleSearchTickets)
	v1.GET("/tickets/latest", s.handleLatestTickets)
	v1.GET("/tickets/featured", s.handleFeaturedTickets)
	v1.GET("/tickets/advertised", s.handleAdvertisedTickets)
	v1.GET("/tickets/:id", s.handleGetTicket)
	v1.GET("/tickets/:id/countdown", s.handleCountdownSnapshot)
	v1.GET("/tickets/:id/countdown/stream", s.handleCountdownStream)
	v1.GET("/payments/success", s.handlePaymentSuccess)
	v1.GET("/payments/cancelled", s.handlePaymentCancel)

	authed := v1.Group("")
	authed.Use(RequireAuth(authService))
	authed.POST("/auth/logout", s.handleLogout)
	authed.GET("/me", s.handleMe)

	authed.POST("/bookings", s.handleCreateBooking)
	authed.GET("/bookings", s.handleUserBookings)
	authed.GET("/bookings/:id", s.handleGetBooking)
	authed.POST("/bookings/:id/checkout", s.handleCheckout)
	authed.GET("/payments", s.handlePaymentHistory)

	vendorOnly := RequireRole(model.RoleVendor, model.RoleAdmin)
	authed.POST("/tickets", vendorOnly, s.handleCreateTicket)
	authed.PATCH("/tickets/:id", vendorOnly, s.handleUpdateTicket)
	authed.DELETE("/tickets/:id", vendorOnly, s.handleDeleteTicket)
	authed.PATCH("/bookings/:id/accept", vendorOnly, s.handleAcceptBooking)
	authed.PATCH("/bookings/:id/reject", vendorOnly, s.handleRejectBooking)

	vendor := authed.Group("/vendor", vendorOnly)
	vendor.GET("/tickets", s.handleVendorTickets)
	vendor.GET("/bookings", s.handleVendorBookings)
	vendor.GET("/stats", s.handleVendorStats)

	adminOnly := RequireRole(model.RoleAdmin)
	authed.PATCH("/tickets/:id/approve", adminOnly, s.handleApproveTicket)
	authed.PATCH("/tickets/:id/reject", adminOnly, s.handleRejectTicket)
	authed.PATCH("/tickets/:id/advertise", adminOnly, s.handleAdvertiseTicket)
	authed.GET("/users", adminOnly, s.handleListUsers)
	authed.PATCH("/users/:id/make-admin", adminOnly, s.handleMakeAdmin)
	authed.PATCH("/users/:id/make-vendor", adminOnly, s.handleMakeVendor)
	authed.PATCH("/users/:id/mark-fraud", adminOnly, s.handleMarkFraud)
	authed.GET("/admin/tickets", adminOnly, s.handleModerationQueue)

	return r
}
