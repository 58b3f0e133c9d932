// Command worker runs the Temporal worker pools for the notification saga.
// The WORKER_ROLES environment variable selects which pools this process
// hosts: all three for development, one per deployment for production so
// orchestration, contact resolution, and message dispatch scale
// independently.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-notify/internal/config"
	"github.com/ahrav/go-notify/internal/contact"
	"github.com/ahrav/go-notify/internal/logging"
	"github.com/ahrav/go-notify/internal/message"
	"github.com/ahrav/go-notify/internal/worker"
	"github.com/ahrav/go-notify/pkg/events"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "worker:", err)
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
	roles, err := cfg.Roles()
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

	deps := worker.Deps{
		Contacts: contact.NewClient(cfg.ContactServiceURL),
		Messages: message.NewClient(cfg.MessageServiceURL),
		Events:   events.NewNoOpEventSink(),
	}
	workers, err := worker.Build(c, cfg.Routes(), deps, roles)
	if err != nil {
		return err
	}

	logger.Info("Starting workers",
		zap.Int("count", len(workers)),
		zap.Strings("roles", cfg.WorkerRoles))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		g.Go(func() error {
			if err := w.Start(); err != nil {
				return fmt.Errorf("start worker: %w", err)
			}
			<-ctx.Done()
			w.Stop()
			return nil
		})
	}
	return g.Wait()
}
