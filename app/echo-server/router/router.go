package router

import (
	"net/http"

	"ecomStore/internal/middleware"
	"ecomStore/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/register", handler.Register)
	auth.POST("/send-otp", handler.SendOTP)
	auth.POST("/verify-otp", handler.VerifyOTP)
	auth.POST("/login", handler.Login)

	auth.POST("/logout", handler.Logout, authRequired)
	auth.GET("/me", handler.Me, authRequired)
}

func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler, authRequired echo.MiddlewareFunc) {
	cart := api.Group("/cart", authRequired)

	cart.GET("", handler.GetCart)
	cart.POST("", handler.AddItem)
	cart.DELETE("", handler.ClearCart)
	cart.PUT("/:id", handler.UpdateItem)
	cart.DELETE("/:id", handler.RemoveItem)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, categories *rest.CategoryHandler, authRequired echo.MiddlewareFunc) {
	products := api.Group("/products")
	sellerOnly := middleware.SellerOnly()

	products.GET("", handler.GetAllProducts)
	products.GET("/search", handler.SearchProducts)
	products.GET("/categories", categories.GetAllCategories)
	products.GET("/:id", handler.GetProductByID)

	products.POST("", handler.CreateProduct, authRequired, sellerOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, sellerOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, sellerOnly)
}

func SetOrdersRoutes(api *echo.Group, ordersHandler *rest.OrdersHandler, authRequired echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)

	orders.GET("", ordersHandler.GetAllOrders)
	orders.POST("", ordersHandler.PlaceOrder)
	orders.GET("/seller", ordersHandler.GetSellerOrders, middleware.SellerOnly())
	orders.GET("/:id", ordersHandler.GetOrderByID)
	orders.PUT("/:id", ordersHandler.UpdateOrderStatus, middleware.SellerOnly())
}

// SetupSystemRoutes registers the unauthenticated operational endpoints.
func SetupSystemRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
