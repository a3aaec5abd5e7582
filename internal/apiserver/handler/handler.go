// Package handler exposes the booking API over HTTP. Handlers bind and
// validate input, resolve the principal placed on the context by the auth
// middleware, and delegate every decision to the service layer.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voyahq/tripdesk/internal/apiserver/middleware"
	"github.com/voyahq/tripdesk/internal/apiserver/scope"
	"github.com/voyahq/tripdesk/internal/apiserver/service"
	"github.com/voyahq/tripdesk/internal/auth/jwt"
	"github.com/voyahq/tripdesk/internal/common/errorx"
	"github.com/voyahq/tripdesk/pkg/metrics"
)

// Handler wires the HTTP surface to the services.
type Handler struct {
	users      *service.UserService
	clients    *service.ClientService
	bookings   *service.BookingService
	documents  *service.DocumentService
	reports    *service.ReportService
	activity   *service.ActivityService
	jwtService *jwt.Service
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewHandler(
	users *service.UserService,
	clients *service.ClientService,
	bookings *service.BookingService,
	documents *service.DocumentService,
	reports *service.ReportService,
	activity *service.ActivityService,
	jwtService *jwt.Service,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:      users,
		clients:    clients,
		bookings:   bookings,
		documents:  documents,
		reports:    reports,
		activity:   activity,
		jwtService: jwtService,
		metrics:    m,
		logger:     logger.Named("handler"),
	}
}

// Register mounts all API routes. Everything except login sits behind the
// auth middleware.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/auth/login", h.Login)

	auth := api.Group("", middleware.Auth(h.jwtService))
	auth.GET("/auth/me", h.Me)

	auth.GET("/users", h.ListUsers)
	auth.POST("/users", h.CreateUser)
	auth.PUT("/users/:id", h.UpdateUser)

	auth.GET("/clients", h.ListClients)
	auth.GET("/clients/:id", h.GetClient)
	auth.PUT("/clients/:id", h.UpdateClient)
	auth.DELETE("/clients/:id", h.ArchiveClient)

	auth.GET("/bookings", h.ListBookings)
	auth.POST("/bookings", h.CreateBooking)
	auth.GET("/bookings/:id", h.GetBooking)
	auth.PUT("/bookings/:id", h.UpdateBooking)
	auth.DELETE("/bookings/:id", h.ArchiveBooking)
	auth.POST("/bookings/:id/payments", h.AddPayment)
	auth.GET("/bookings/:id/documents", h.ListDocuments)
	auth.POST("/bookings/:id/documents", h.UploadDocument)
	auth.DELETE("/payments/:id", h.ArchivePayment)

	auth.GET("/reports/kpis", h.ReportKPIs)
	auth.GET("/reports/outstanding", h.ReportOutstanding)
	auth.GET("/reports/agents", h.ReportAgents)
	auth.GET("/reports/agents/:id", h.ReportAgent)
	auth.GET("/dashboard", h.Dashboard)
	auth.GET("/activity", h.RecentActivity)
}

// principal resolves the authenticated principal or fails the request.
func principal(c *gin.Context) (scope.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		errorx.Send(c, errorx.ErrUnauthorized)
		return scope.Principal{}, false
	}
	return p, true
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorx.Send(c, errorx.ErrInvalidInput.WithDetail("reason", "id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
