package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	v *validator.Validate,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: v}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/refresh", authHandler.Refresh)
	api.POST("/logout", authHandler.Logout)

	api.GET("/categories", categoryHandler.ListCategories)
	api.GET("/categories/:id", categoryHandler.GetCategory)
	api.GET("/categories/:id/products", categoryHandler.ListCategoryProducts)

	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/search", productHandler.SearchProducts)
	api.GET("/products/:id", productHandler.GetProduct)
	api.GET("/products/:id/images", productHandler.ListImages)

	api.GET("/payments/webhook", paymentHandler.Webhook)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/users/profile", userHandler.GetProfile)
	secured.PUT("/users/profile", userHandler.UpdateProfile)
	secured.DELETE("/users/profile", userHandler.DeleteProfile)
	secured.GET("/users/profile/orders", userHandler.ListProfileOrders)

	secured.POST("/orders", orderHandler.CreateOrder)
	secured.GET("/orders/:id", orderHandler.GetOrder)
	secured.GET("/orders/:id/items", orderHandler.ListOrderItems)
	secured.POST("/orders/:id/cancel", orderHandler.CancelOrder)

	secured.POST("/payments", paymentHandler.CreatePayment)
	secured.GET("/payments/:id", paymentHandler.GetPayment)
	secured.GET("/payments/orders/:orderId", paymentHandler.GetPaymentByOrder)

	// Admin routes
	admin := secured.Group("", RequireAdmin)

	admin.GET("/users", userHandler.ListUsers)
	admin.GET("/users/:id", userHandler.GetUser)
	admin.GET("/users/:id/orders", userHandler.ListUserOrders)
	admin.PUT("/users/:id", userHandler.UpdateUser)
	admin.DELETE("/users/:id", userHandler.DeleteUser)

	admin.POST("/categories", categoryHandler.CreateCategory)
	admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)
	admin.POST("/products/:id/images", productHandler.AddImage)
	admin.DELETE("/products/:id/images/:imgId", productHandler.RemoveImage)

	admin.GET("/orders", orderHandler.ListOrders)
	admin.PUT("/orders/:id", orderHandler.UpdateOrder)
	admin.PUT("/orders/:id/items/:itemId", orderHandler.UpdateOrderItem)
	admin.DELETE("/orders/:id", orderHandler.DeleteOrder)

	admin.GET("/payments", paymentHandler.ListPayments)
	admin.PUT("/payments/:id", paymentHandler.UpdatePayment)
}

// RequireAdmin rejects requests whose token does not carry the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		claims, ok := token.Claims.(*auth.Claims)
		if !ok || claims.Role != string(model.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
