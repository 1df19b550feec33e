// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// The mailing-list-admin command serves the mailing list and subscription admin screens.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/cmd/mailing-list-admin/service"
	internalService "github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/service"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/log"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/utils"
)

const (
	defaultPort = "8080"
	// gracefulShutdownSeconds should be higher than the NATS client request timeout
	// and lower than the pod or liveness probe's terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25
)

func main() {
	os.Exit(run())
}

// run wires the service and blocks until shutdown, returning the process exit code
func run() int {
	var (
		port  = flag.String("p", defaultPort, "listen port")
		bind  = flag.String("bind", "*", "interface to bind on")
		debug = flag.Bool("d", false, "enable debug logging")
	)
	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	if *debug {
		_ = os.Setenv("LOG_LEVEL", "debug")
	}
	log.InitStructureLogConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error setting up OpenTelemetry SDK", "error", err, log.PriorityCritical())
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "error shutting down OpenTelemetry SDK", "error", err)
		}
	}()

	// Infrastructure
	storage := service.Storage(ctx)
	accessChecker := service.AccessChecker(ctx)
	userReader := service.UserReader(ctx)
	publisher := service.MessagePublisher(ctx)
	authService := service.AuthService(ctx)
	catalog := service.Catalog(ctx)
	dates := service.DateFormatter(ctx)

	renderer, err := service.NewRenderer(service.Routes(ctx))
	if err != nil {
		slog.ErrorContext(ctx, "failed to load templates", "error", err, log.PriorityCritical())
		return 1
	}

	// Use cases
	deleter := internalService.NewMailingListDeleteOrchestrator(
		internalService.WithMailingListReader(storage),
		internalService.WithMailingListWriter(storage),
		internalService.WithSubscriptionCounter(storage),
		internalService.WithDeleteTranslator(catalog),
		internalService.WithDeleteAccessChecker(accessChecker),
		internalService.WithPublisher(publisher),
	)
	table := internalService.NewSubscriptionTableOrchestrator(
		internalService.WithSubscriptionReader(storage),
		internalService.WithListLabelReader(storage),
		internalService.WithAccessChecker(accessChecker),
		internalService.WithUserReader(userReader),
		internalService.WithTranslator(catalog),
		internalService.WithLanguageManager(catalog),
		internalService.WithDateFormatter(dates),
	)
	lister := internalService.NewMailingListListingOrchestrator(
		internalService.WithCollectionReader(storage),
		internalService.WithCollectionAccessChecker(accessChecker),
		internalService.WithCollectionTranslator(catalog),
	)

	admin := service.NewMailingListAdmin(deleter, table, lister, storage, catalog, renderer, service.FlashStore(ctx))

	addr := ":" + *port
	if *bind != "*" {
		addr = net.JoinHostPort(*bind, *port)
	}

	srv := newServer(ctx, addr, newHandler(admin, authService, userReader, catalog))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.InfoContext(ctx, "HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server", "addr", addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
		defer cancel()

		errShutdown := srv.Shutdown(shutdownCtx)
		if err := service.Close(); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to close NATS connection", "error", err)
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "server exited with error", "error", err, log.PriorityCritical())
		return 1
	}

	slog.InfoContext(ctx, "graceful shutdown completed")
	return 0
}

// newServer builds the HTTP server. Request contexts keep the values of ctx but
// not its cancellation, so in-flight requests finish while Shutdown drains them.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	base := context.WithoutCancel(ctx)
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return base
		},
	}
}
