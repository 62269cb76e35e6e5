package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/arenadesk/court-reservation/internal/availability"
	"github.com/arenadesk/court-reservation/internal/config"
	"github.com/arenadesk/court-reservation/internal/database"
	"github.com/arenadesk/court-reservation/internal/handler"
	appmw "github.com/arenadesk/court-reservation/internal/middleware"
	"github.com/arenadesk/court-reservation/internal/queue"
	"github.com/arenadesk/court-reservation/internal/repository"
	"github.com/arenadesk/court-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	venues := repository.NewVenueRepo(db)
	resources := repository.NewResourceRepo(db)
	hours := repository.NewHoursRepo(db)
	reservations := repository.NewReservationRepo(db)
	blackouts := repository.NewBlackoutRepo(db)

	policy := availability.Policy{
		OpenWhenUnset:         cfg.HoursDefaultOpen,
		EnforceEndWithinHours: cfg.HoursEnforceEnd,
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; running without response cache and rate limiting")
	}
	mw := router.Middlewares{
		Cache:     appmw.NewResponseCache(config.LoadCacheConfig(), rdb),
		RateLimit: appmw.NewRateLimiter(config.LoadRateLimitConfig(), rdb),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterVenues(e, handler.NewVenueHandler(venues, resources), mw)
	router.RegisterHours(e, handler.NewHoursHandler(venues, hours), mw)
	router.RegisterBlackouts(e, handler.NewBlackoutHandler(venues, blackouts))
	router.RegisterAvailability(e, handler.NewAvailabilityHandler(resources, hours, reservations, blackouts, policy), mw)
	router.RegisterBookings(e, handler.NewBookingHandler(db, venues, resources, hours, reservations, blackouts, policy), mw)

	// Confirmation consumer runs for the life of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
