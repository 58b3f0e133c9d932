// Command ingest exposes the external-event ingestion endpoint. It accepts
// events over HTTP, hands them to the event router, and answers with an
// immediate acceptance: callers never block on — or synchronously learn
// about — saga outcomes.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-notify/internal/config"
	"github.com/ahrav/go-notify/internal/ingest"
	"github.com/ahrav/go-notify/internal/logging"
)

// externalEvent is the inbound wire envelope: an optional event id, a type
// tag, and an opaque payload the router decodes per type.
type externalEvent struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	Payload   json.RawMessage `json:"payload"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ingest:", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
		Logger:    logging.NewTemporalLogger(logger),
	})
	if err != nil {
		return fmt.Errorf("dial temporal: %w", err)
	}
	defer c.Close()

	router := ingest.NewRouter(c, cfg.Routes(), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		var event externalEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			http.Error(w, "invalid event envelope", http.StatusBadRequest)
			return
		}
		if event.EventType == "" {
			http.Error(w, "eventType is required", http.StatusBadRequest)
			return
		}
		if event.EventID == "" {
			event.EventID = uuid.New().String()
		}

		// Acceptance is unconditional past envelope validation: routing
		// problems are logged, never surfaced to the event producer.
		router.Route(r.Context(), event.EventID, event.EventType, event.Payload)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"eventId": event.EventID})
	})

	server := &http.Server{
		Addr:              cfg.IngestAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Ingest endpoint listening", zap.String("addr", cfg.IngestAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
