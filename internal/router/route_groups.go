package router

import (
	"restaurant_gateway/internal/handlers"
	"restaurant_gateway/internal/middleware"
	"restaurant_gateway/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupMenuRoutes sets up the public menu routes.
func SetupMenuRoutes(apiGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuRoutes := apiGroup.Group("/menu")
	{
		menuRoutes.GET("", menuHandler.GetMenu)
		menuRoutes.GET("/categories/:category", menuHandler.GetMenuByCategory)
		menuRoutes.GET("/best-selling", menuHandler.GetBestSelling)
	}
}

// SetupCartRoutes sets up the session cart routes.
func SetupCartRoutes(apiGroup *gin.RouterGroup, cartHandler *handlers.CartHandler) {
	cartRoutes := apiGroup.Group("/cart")
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.DELETE("", cartHandler.ClearCart)
		cartRoutes.POST("/items", cartHandler.AddItem)
		cartRoutes.PUT("/items/:itemId", cartHandler.UpdateQuantity)
		cartRoutes.DELETE("/items/:itemId", cartHandler.RemoveItem)
	}
}

// SetupCheckoutRoutes sets up checkout. These stay reachable without a
// token so an anonymous checkout gets the sign-in redirect decision.
func SetupCheckoutRoutes(apiGroup *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler) {
	checkoutRoutes := apiGroup.Group("/checkout")
	{
		checkoutRoutes.GET("/booking", checkoutHandler.GetCheckout)
		checkoutRoutes.PUT("/order-type", checkoutHandler.SetOrderType)
		checkoutRoutes.POST("", checkoutHandler.Checkout)
	}
}

// SetupPaymentResultRoutes sets up the page the payment gateway returns to.
func SetupPaymentResultRoutes(apiGroup *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	apiGroup.GET("/payments/result", paymentHandler.GetResult)
}

// SetupOrderRoutes sets up the customer's order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.GET("", orderHandler.GetMyOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.POST("/:id/edit", orderHandler.OpenEdit)
		orderRoutes.PUT("/:id/edit/lines/:lineId", orderHandler.UpdateEditLine)
		orderRoutes.POST("/:id/edit/save", orderHandler.SaveEdit)
		orderRoutes.DELETE("/:id/edit", orderHandler.DiscardEdit)
		orderRoutes.POST("/:id/cancel", orderHandler.CancelOrder)
	}
}

// SetupBookingRoutes sets up the customer's booking routes.
func SetupBookingRoutes(authenticatedGroup *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	bookingRoutes := authenticatedGroup.Group("/bookings")
	{
		bookingRoutes.POST("", bookingHandler.CreateBooking)
		bookingRoutes.GET("", bookingHandler.GetMyBookings)
	}
}

// SetupPaymentRoutes sets up the payment modal routes.
func SetupPaymentRoutes(authenticatedGroup *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	intentRoutes := authenticatedGroup.Group("/payments/intent")
	{
		intentRoutes.POST("", paymentHandler.OpenModal)
		intentRoutes.DELETE("", paymentHandler.CloseModal)
		intentRoutes.POST("/gateway", paymentHandler.PayWithGateway)
		intentRoutes.POST("/cash", paymentHandler.PayWithCash)
	}
}

// SetupAuthenticatedAuthRoutes sets up the routes that need a signed-in user.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}

// SetupStaffRoutes sets up the staff order board and table routes.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler, staffHandler *handlers.StaffHandler) {
	staffRoutes := authenticatedGroup.Group("/staff")
	staffRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		staffRoutes.GET("/orders", orderHandler.GetOrdersByStatus)
		staffRoutes.GET("/orders/search", orderHandler.SearchOrders)
		staffRoutes.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
		staffRoutes.PATCH("/orders/:id/cancel", orderHandler.CancelOrder)
		staffRoutes.GET("/tables", staffHandler.GetTables)
		staffRoutes.PATCH("/tables/:id/status", staffHandler.UpdateTableStatus)
	}
}

// SetupAdminRoutes sets up booking administration and reports.
func SetupAdminRoutes(authenticatedGroup *gin.RouterGroup, bookingHandler *handlers.BookingHandler, reportHandler *handlers.ReportHandler) {
	adminRoutes := authenticatedGroup.Group("/admin")
	adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		adminRoutes.GET("/bookings", bookingHandler.GetBookings)
		adminRoutes.GET("/bookings/phone/:phone", bookingHandler.SearchByPhone)
		adminRoutes.PUT("/bookings/:id", bookingHandler.UpdateBooking)
		adminRoutes.PUT("/bookings/:id/cancel", bookingHandler.CancelBooking)
		adminRoutes.PUT("/bookings/:id/complete", bookingHandler.CompleteBooking)
		adminRoutes.DELETE("/bookings/:id", bookingHandler.DeleteBooking)

		adminRoutes.GET("/reports/revenue", reportHandler.GetRevenueReport)
		adminRoutes.GET("/reports/monthly", reportHandler.GetMonthlyStats)
		adminRoutes.GET("/reports/best-selling", reportHandler.GetBestSelling)
	}
}
