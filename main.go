package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"

	"rental-backend/config"
	"rental-backend/internal/auth"
	"rental-backend/internal/consumer"
	"rental-backend/internal/handler"
	"rental-backend/internal/middleware"
	"rental-backend/internal/repository"
	"rental-backend/internal/service"
	"rental-backend/pkg/database"
	"rental-backend/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ: booking transitions are published here, and the property-sync
	// consumer below marks properties rented when a booking is approved.
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	consumer.NewBookingConsumer(propertyRepo).Start(msgs)

	// Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authSvc := service.NewAuthService(userRepo, tokens)
	propertySvc := service.NewPropertyService(propertyRepo)
	bookingSvc := service.NewBookingService(bookingRepo, propertyRepo, publisher)
	messageSvc := service.NewMessageService(messageRepo, propertyRepo)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, propertyRepo)
	statsSvc := service.NewStatsService(propertyRepo, bookingRepo, favoriteRepo)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "rental-backend"})
	})

	requireAuth := middleware.RequireAuth(tokens)

	handler.NewAuthHandler(authSvc).RegisterRoutes(e.Group("/api/v1/auth"))

	publicProperties := e.Group("/api/v1/properties")
	authedProperties := e.Group("/api/v1/properties", requireAuth)
	handler.NewPropertyHandler(propertySvc).RegisterRoutes(publicProperties, authedProperties)
	handler.NewMessageHandler(messageSvc).RegisterRoutes(authedProperties)

	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e.Group("/api/v1/bookings", requireAuth))
	handler.NewFavoriteHandler(favoriteSvc).RegisterRoutes(e.Group("/api/v1/favorites", requireAuth))
	handler.NewStatsHandler(statsSvc).RegisterRoutes(e.Group("/api/v1/stats", requireAuth))

	log.Printf("Rental backend starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
