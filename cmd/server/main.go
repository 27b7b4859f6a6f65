package main

import (
    "log"
    "os"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/config"
    "github.com/iliyamo/hotel-reservation/internal/database"
    "github.com/iliyamo/hotel-reservation/internal/gateway"
    "github.com/iliyamo/hotel-reservation/internal/handler"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/queue"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/router"
    queue_publisher "github.com/iliyamo/hotel-reservation/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments use the environment
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    bookingRepo := repository.NewBookingRepo(db)
    ratePlanRepo := repository.NewRatePlanRepo(db)
    paymentRepo := repository.NewPaymentRepo(db)
    hotelRepo := repository.NewHotelRepo(db)
    roomRepo := repository.NewRoomRepo(db)
    roomTypeRepo := repository.NewRoomTypeRepo(db)

    calculator := pricing.NewCalculator(ratePlanRepo, cfg.TaxRateBps, cfg.ServiceFeeCents, pricing.ParseTiers(cfg.DiscountTiers))
    machine := booking.NewStateMachine(bookingRepo, hotelRepo, cfg.HoldTTL)
    sweeper := booking.NewSweeper(machine)
    reconciler := booking.NewReconciler(machine, paymentRepo, []byte(cfg.WebhookSecret), queue_publisher.PublishBookingConfirmed)
    bulk := pricing.NewBulkUpdater(ratePlanRepo)
    gw := gateway.New(cfg.GatewayURL, cfg.GatewayKey, cfg.GatewayTimeout)

    // Background consumer that mirrors confirmations into logs/booking.log.
    go func() {
        if err := queue.StartConfirmationConsumer(os.Getenv("RABBITMQ_URL")); err != nil {
            log.Printf("confirmation consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    router.RegisterRoutes(e, router.Handlers{
        Pricing:  handler.NewPricingHandler(calculator, roomTypeRepo),
        Booking:  handler.NewBookingHandler(machine, calculator, roomRepo, roomTypeRepo, paymentRepo, gw, cfg.Currency),
        Operator: handler.NewOperatorHandler(machine, bulk),
        Webhook:  handler.NewWebhookHandler(reconciler),
        Sweep:    handler.NewSweepHandler(sweeper, cfg.SweepSecret),
    }, cfg.JWTSecret, config.NewRedisClient())

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
