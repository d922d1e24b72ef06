// Package main clothing rental API.
//
// @title           Clothing Rental API
// @version         1.0
// @description     Rental-commerce backend: catalog, rentals, payments.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"clothingrental/app/echoServer"
	authctrl "clothingrental/app/echoServer/controller/auth"
	clothingctrl "clothingrental/app/echoServer/controller/clothing"
	paymentctrl "clothingrental/app/echoServer/controller/payment"
	rentalctrl "clothingrental/app/echoServer/controller/rental"
	"clothingrental/app/echoServer/validation"
	"clothingrental/config"
	catalogrepo "clothingrental/repository/catalog"
	paymentrepo "clothingrental/repository/payment"
	rentalrepo "clothingrental/repository/rental"
	userrepo "clothingrental/repository/user"
	authsvc "clothingrental/service/auth"
	catalogsvc "clothingrental/service/catalog"
	paymentsvc "clothingrental/service/payment"
	rentalsvc "clothingrental/service/rental"
	"clothingrental/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db.SQL)
	cr := catalogrepo.New(db.SQL)
	rr := rentalrepo.New(db.SQL)
	pr := paymentrepo.New(db.SQL)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	cs := catalogsvc.New(cr)
	rs := rentalsvc.New(db, rr, cr)
	ps := paymentsvc.New(db, pr, rr, time.Now)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	clothingC := &clothingctrl.Controller{Svc: cs, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:     authC,
		Clothing: clothingC,
		Rental:   rentalC,
		Payment:  paymentC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
