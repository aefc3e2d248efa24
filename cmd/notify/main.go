package main

import (
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/campusclubs/clubhub/internal/platform/mailer"
	"github.com/campusclubs/clubhub/pkg/config"
	"github.com/campusclubs/clubhub/pkg/events"
	"github.com/campusclubs/clubhub/pkg/logger"
	"github.com/campusclubs/clubhub/pkg/middleware"
)

// The notify worker drains notify.send and delivers email. Running it as
// its own process keeps mail provider latency out of the API path.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Default()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		log.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	var mail mailer.Service
	if cfg.Email.DevMode {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	err = eventBus.QueueSubscribe(events.NotifySend, "notify-workers", func(msg *events.Message) {
		var evt events.NotificationEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			log.Error("Dropping malformed notification event", "error", err)
			return
		}

		id, err := mail.Send(evt.Recipient, evt.Name, evt.Subject, evt.Body, "")
		if err != nil {
			log.Error("Email delivery failed", "error", err, "recipient", evt.Recipient)
			return
		}
		log.Info("Email delivered", "message_id", id, "subject", evt.Subject)
	})
	if err != nil {
		log.Error("Failed to subscribe", "error", err, "subject", events.NotifySend)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ServiceName("clubhub-notify"))
	r.Use(middleware.Logging)
	r.Use(middleware.Health)

	port := os.Getenv("NOTIFY_PORT")
	if port == "" {
		port = "8086"
	}
	go func() {
		log.Info("Notify worker starting", "port", port)
		if err := http.ListenAndServe(":"+port, r); err != nil {
			log.Error("Notify worker error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Notify worker stopped")
}
