package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/campusclubs/clubhub/internal/http/handlers"
	httpmw "github.com/campusclubs/clubhub/internal/http/middleware"
	"github.com/campusclubs/clubhub/internal/repo/postgres"
	"github.com/campusclubs/clubhub/internal/service"
	"github.com/campusclubs/clubhub/internal/ticket"
	"github.com/campusclubs/clubhub/pkg/config"
	"github.com/campusclubs/clubhub/pkg/database"
	"github.com/campusclubs/clubhub/pkg/events"
	"github.com/campusclubs/clubhub/pkg/logger"
	"github.com/campusclubs/clubhub/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		log.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	registrationRepo := postgres.NewRegistrationRepository(pool)
	clubRepo := postgres.NewClubRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	pointsRepo := postgres.NewPointsRepository(pool)

	codec := ticket.NewCodec(cfg.Ticket.Secret)

	authService := service.NewAuthService(userRepo, cfg)
	ticketService := service.NewTicketService(registrationRepo, clubRepo, userRepo, notificationRepo, pointsRepo, codec, eventBus, cfg)
	registrationService := service.NewRegistrationService(registrationRepo, clubRepo, notificationRepo, pointsRepo, eventBus, cfg)
	clubService := service.NewClubService(clubRepo)
	engagementService := service.NewEngagementService(notificationRepo, pointsRepo)

	h := handlers.New(authService, ticketService, registrationService, clubService, engagementService, cfg)

	authLimiter := httpmw.NewRateLimiter(rdb, httpmw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})
	checkInLimiter := httpmw.NewRateLimiter(rdb, httpmw.RateLimitConfig{
		Requests: 120,
		Window:   time.Minute,
	})

	requireAuth := httpmw.RequireJWT(cfg.Auth.JWTSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ServiceName("clubhub-api"))
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Health)

	r.Handle("/metrics", middleware.MetricsHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
		})

		r.Get("/clubs", h.ListClubs)
		r.Get("/clubs/{id}", h.GetClub)
		r.Get("/clubs/{id}/events", h.ListClubEvents)
		r.Get("/events/{id}", h.GetEvent)
		r.Get("/leaderboard", h.Leaderboard)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", h.Me)
			r.Get("/me/registrations", h.MyRegistrations)
			r.Get("/me/notifications", h.Notifications)
			r.Post("/me/notifications/{id}/read", h.MarkNotificationRead)
			r.Post("/events/{id}/register", h.RegisterForEvent)
			r.Post("/tickets", h.IssueTicket)
			r.Get("/events/{id}/attendees", h.EventAttendees)

			r.Group(func(r chi.Router) {
				r.Use(checkInLimiter.Middleware())
				r.Post("/check-in", h.CheckIn)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("API server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}
