package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/adamwalzer/regional-games-lambda/internal/models"
	"github.com/adamwalzer/regional-games-lambda/internal/notify"
)

var log = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Runner is the pipeline surface the job handler drives.
type Runner interface {
	Cron(ctx context.Context) error
	Group(ctx context.Context, groupID string) error
}

// HandlerContext holds dependencies for the handlers
type HandlerContext struct {
	// NewRunner builds a pipeline bound to the base URI carried by the event.
	NewRunner func(uri string) (Runner, error)
	Notifier  notify.Notifier
}

// JobHandler processes job trigger events carrying {uri, job, group}.
func (ctx *HandlerContext) JobHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		log.Error("Invalid request method")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusInternalServerError)
		log.Error("Error reading request body", slog.Any("error", err))
		return
	}

	var event models.JobEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Error decoding JSON", http.StatusBadRequest)
		log.Error("Error decoding JSON", slog.Any("error", err))
		return
	}

	job := event.Job
	if job == "" {
		job = "cron"
	}

	log.Info("Received job event",
		slog.String("job", job),
		slog.String("uri", event.URI))

	if event.URI == "" {
		http.Error(w, "API URI missing from job event", http.StatusBadRequest)
		log.Error("API URI missing from job event")
		return
	}

	switch job {
	case "cron":
		log.Info("Processing cron for all games")
		ctx.runJob(w, r, event.URI, job, func(runner Runner) error {
			return runner.Cron(r.Context())
		})

	case "group":
		if event.Group == "" {
			http.Error(w, "Invalid group", http.StatusBadRequest)
			log.Error("Invalid group", slog.String("group", event.Group))
			return
		}
		log.Info("Processing all games for group", slog.String("group", event.Group))
		ctx.runJob(w, r, event.URI, job, func(runner Runner) error {
			return runner.Group(r.Context(), event.Group)
		})

	default:
		http.Error(w, "Invalid process job: "+job, http.StatusBadRequest)
		log.Error("Invalid process job", slog.String("job", job))
	}
}

func (ctx *HandlerContext) runJob(w http.ResponseWriter, r *http.Request, uri, job string, run func(Runner) error) {
	runner, err := ctx.NewRunner(uri)
	if err != nil {
		http.Error(w, "Failed to initialize pipeline", http.StatusInternalServerError)
		log.Error("Failed to initialize pipeline", slog.Any("error", err))
		return
	}

	if err := run(runner); err != nil {
		log.Error("Job failed", slog.String("job", job), slog.Any("error", err))
		if ctx.Notifier != nil {
			if notifyErr := ctx.Notifier.RunFailed(r.Context(), job, err); notifyErr != nil {
				log.Error("Failed to report job failure", slog.Any("error", notifyErr))
			}
		}
		http.Error(w, "Job failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Job completed"))
}

func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
