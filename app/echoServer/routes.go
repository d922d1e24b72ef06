package echoServer

import (
	"net/http"

	"clothingrental/app/echoServer/controller/auth"
	"clothingrental/app/echoServer/controller/clothing"
	"clothingrental/app/echoServer/controller/payment"
	"clothingrental/app/echoServer/controller/rental"
	"clothingrental/app/echoServer/jwtx"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth     *auth.Controller
	Clothing *clothing.Controller
	Rental   *rental.Controller
	Payment  *payment.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Catalog browsing is public, like the storefront needs it to be.
	pub.GET("/clothing", c.Clothing.List)
	pub.GET("/clothing/:id", c.Clothing.Detail)

	// Authenticated
	authGrp := e.Group("/v1")
	authGrp.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),
	}))
	authGrp.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			return next(ctx)
		}
	})

	// Catalog management
	authGrp.POST("/clothing", c.Clothing.Create)
	authGrp.PUT("/clothing/:id", c.Clothing.Update)
	authGrp.DELETE("/clothing/:id", c.Clothing.Delete)

	// Rentals
	authGrp.POST("/rentals", c.Rental.Create)
	authGrp.GET("/rentals/my", c.Rental.MyRentals)

	// Payments
	authGrp.POST("/payments", c.Payment.Record)
	authGrp.POST("/payments/cash", c.Payment.CreateCash)
	authGrp.POST("/payments/card", c.Payment.ProcessCard)
	authGrp.GET("/payments/status/:rentalId", c.Payment.Status)

	// Admin payment management
	authGrp.GET("/admin/payments/pending-cash", c.Payment.PendingCash)
	authGrp.POST("/admin/payments/confirm-cash/:rentalId", c.Payment.ConfirmCash)
}
