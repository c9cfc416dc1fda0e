package main // Entry point package

import (
	"context" // Context for background workers
	"log"     // Logging library
	"time"    // Durations for reaper settings

	"github.com/joho/godotenv" // Optional .env loader for local runs
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ticket-reservation/internal/config"
	"github.com/iliyamo/railway-ticket-reservation/internal/database"
	"github.com/iliyamo/railway-ticket-reservation/internal/handler"
	"github.com/iliyamo/railway-ticket-reservation/internal/queue"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
	"github.com/iliyamo/railway-ticket-reservation/internal/router"
	"github.com/iliyamo/railway-ticket-reservation/internal/service"
)

func main() {
	// .env is a convenience for local development; in deployment the
	// variables come from the environment and the file is absent.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; limiter and cache degrade off

	trainRepo := repository.NewTrainRepo(db)
	wagonRepo := repository.NewWagonRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	ticketRepo := repository.NewTicketRepo(db)

	ticketSvc := service.NewTicketService(trainRepo, wagonRepo, seatRepo, ticketRepo)

	// Background workers stop when main returns.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reaper := service.NewHoldReaper(
		seatRepo,
		time.Duration(cfg.HoldTTLMin)*time.Minute,
		time.Duration(cfg.ReaperIntervalSec)*time.Second,
	)
	go reaper.Run(ctx)

	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.Register(e, router.Deps{
		Trains:       handler.NewTrainHandler(trainRepo, wagonRepo, seatRepo),
		Wagons:       handler.NewWagonHandler(wagonRepo, seatRepo),
		Quotes:       handler.NewQuoteHandler(ticketSvc),
		Tickets:      handler.NewTicketHandler(ticketSvc, trainRepo, wagonRepo, seatRepo),
		Admin:        handler.NewAdminHandler(trainRepo, wagonRepo, seatRepo),
		JWTSecret:    cfg.JWTSecret,
		AdminKeyHash: cfg.AdminKeyHash,
		Redis:        rdb,
		RateLimit:    config.LoadRateLimitConfig(),
		Cache:        config.LoadCacheConfig(),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
