package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kamberss/camrent/internal/handlers"
	"github.com/kamberss/camrent/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	RentalHandler  *handlers.RentalHandler
	PaymentHandler *handlers.PaymentHandler
	UserHandler    *handlers.UserHandler
	SearchHandler  *handlers.SearchHandler
	TokenService   *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.LogOut)
	api.GET("/profile", d.AuthHandler.Me, d.TokenService.AutoRefreshMiddleware)

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/:id", d.ProductHandler.GetProduct)
	api.GET("/search", d.SearchHandler.Search)

	api.POST("/rental", d.RentalHandler.CreateRental)
	api.POST("/payment/create-transaction", d.PaymentHandler.CreateTransaction)

	admin := api.Group("", d.TokenService.AutoRefreshMiddlewareAdmin)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.PUT("/products/:id/stock", d.ProductHandler.UpdateStock)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.GET("/rentals", d.RentalHandler.ListRentals)
	admin.GET("/rentals/:id", d.RentalHandler.GetRental)
	admin.PUT("/rentals/:id/status", d.RentalHandler.UpdateStatus)
	admin.PUT("/rentals/:id/return", d.RentalHandler.ProcessReturn)

	admin.GET("/users", d.UserHandler.ListUsers)
	admin.POST("/users", d.UserHandler.CreateUser)
	admin.PUT("/users/:id", d.UserHandler.UpdateUser)
	admin.DELETE("/users/:id", d.UserHandler.DeleteUser)
}
