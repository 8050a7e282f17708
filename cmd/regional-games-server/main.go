package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/adamwalzer/regional-games-lambda/internal/api"
	"github.com/adamwalzer/regional-games-lambda/internal/config"
	"github.com/adamwalzer/regional-games-lambda/internal/handlers"
	"github.com/adamwalzer/regional-games-lambda/internal/notify"
	"github.com/adamwalzer/regional-games-lambda/internal/processor"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	log.Info("Starting regional-games-server")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		log.Error("Missing required environment variables: API_USER or API_PASS")
		os.Exit(1)
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.SlackWebhookURL != "" {
		log.Info("Slack notifications enabled")
		notifier = notify.NewSlackNotifier(cfg.SlackWebhookURL, cfg.SlackChannel)
	} else {
		log.Info("Slack notifications disabled, SLACK_WEBHOOK_URL not set")
	}

	// Each job event carries its own base URI, so the pipeline is built per
	// request rather than once at startup.
	handlerCtx := handlers.HandlerContext{
		NewRunner: func(uri string) (handlers.Runner, error) {
			client, err := api.New(uri, cfg.APIUser, cfg.APIPass, log)
			if err != nil {
				return nil, err
			}
			return processor.New(client, log), nil
		},
		Notifier: notifier,
	}

	http.HandleFunc("/isready", handlers.HealthCheckHandler)
	http.HandleFunc("/isalive", handlers.HealthCheckHandler)
	http.HandleFunc("/job", func(w http.ResponseWriter, r *http.Request) {
		handlerCtx.JobHandler(w, r)
	})

	log.Info("Server listening", slog.Int("port", cfg.Port))
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), nil); err != nil {
		log.Error("Failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
}
