package router

import (
	"time"

	"restaurant_gateway/internal/handlers"
	"restaurant_gateway/internal/middleware"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/internal/services"
	"restaurant_gateway/internal/session"
	"restaurant_gateway/pkg/metrics"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Deps is what the gateway needs to serve requests.
type Deps struct {
	API       repositories.Requester
	Location  *time.Location
	Validator *utils.TokenValidator
	Sessions  *session.Manager
	Cookie    middleware.SessionCookie
	Recorder  *metrics.Recorder
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, d Deps) {
	// Initialize Repositories
	bookingRepo := repositories.NewBookingRepository(d.API, d.Location)
	orderRepo := repositories.NewOrderRepository(d.API, d.Location)
	paymentRepo := repositories.NewPaymentRepository(d.API)
	menuRepo := repositories.NewMenuRepository(d.API)
	tableRepo := repositories.NewTableRepository(d.API)

	// Initialize Services
	bookingService := services.NewBookingService(bookingRepo, d.Location)
	checkoutService := services.NewCheckoutService(orderRepo, bookingService, d.Recorder)
	orderService := services.NewOrderService(orderRepo, bookingService)
	paymentService := services.NewPaymentService(paymentRepo, d.Recorder)
	menuService := services.NewMenuService(menuRepo)
	tableService := services.NewTableService(tableRepo)
	reportService := services.NewReportService(paymentRepo, orderRepo, menuService, d.Location)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(d.Sessions, d.Cookie.Name)
	cartHandler := handlers.NewCartHandler()
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	menuHandler := handlers.NewMenuHandler(menuService)
	staffHandler := handlers.NewStaffHandler(tableService)
	reportHandler := handlers.NewReportHandler(reportService)

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.AuthMiddleware(d.Validator), middleware.SessionMiddleware(d.Sessions, d.Cookie))

	// Public routes: anonymous callers still get a session and a cart
	SetupMenuRoutes(apiV1, menuHandler)
	SetupCartRoutes(apiV1, cartHandler)
	SetupCheckoutRoutes(apiV1, checkoutHandler)
	SetupPaymentResultRoutes(apiV1, paymentHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.RequireAuth())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupBookingRoutes(authenticated, bookingHandler)
		SetupPaymentRoutes(authenticated, paymentHandler)
		SetupStaffRoutes(authenticated, orderHandler, staffHandler)
		SetupAdminRoutes(authenticated, bookingHandler, reportHandler)
	}
}
