// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/infrastructure/auth0"
	infrastructure "github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/flash"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/i18n"
)

var (
	natsClient *nats.NATSClient

	natsDoOnce sync.Once
)

func natsInit(ctx context.Context) {
	natsDoOnce.Do(func() {
		natsURL := os.Getenv("NATS_URL")
		if natsURL == "" {
			natsURL = "nats://localhost:4222"
		}

		natsTimeout := os.Getenv("NATS_TIMEOUT")
		if natsTimeout == "" {
			natsTimeout = "10s"
		}
		natsTimeoutDuration, err := time.ParseDuration(natsTimeout)
		if err != nil {
			log.Fatalf("invalid NATS timeout duration: %v", err)
		}

		natsMaxReconnect := os.Getenv("NATS_MAX_RECONNECT")
		if natsMaxReconnect == "" {
			natsMaxReconnect = "3"
		}
		natsMaxReconnectInt, err := strconv.Atoi(natsMaxReconnect)
		if err != nil {
			log.Fatalf("invalid NATS max reconnect value %s: %v", natsMaxReconnect, err)
		}

		natsReconnectWait := os.Getenv("NATS_RECONNECT_WAIT")
		if natsReconnectWait == "" {
			natsReconnectWait = "2s"
		}
		natsReconnectWaitDuration, err := time.ParseDuration(natsReconnectWait)
		if err != nil {
			log.Fatalf("invalid NATS reconnect wait duration %s : %v", natsReconnectWait, err)
		}

		config := nats.Config{
			URL:           natsURL,
			Timeout:       natsTimeoutDuration,
			MaxReconnect:  natsMaxReconnectInt,
			ReconnectWait: natsReconnectWaitDuration,
		}

		client, errNewClient := nats.NewClient(ctx, config)
		if errNewClient != nil {
			log.Fatalf("failed to create NATS client: %v", errNewClient)
		}
		natsClient = client
	})
}

func natsClientImpl(ctx context.Context) *nats.NATSClient {
	natsInit(ctx)
	return natsClient
}

func sourceFromEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Storage initializes the mailing list and subscription storage based on the repository source
func Storage(ctx context.Context) port.ReaderWriter {
	var storage port.ReaderWriter

	repoSource := sourceFromEnv("REPOSITORY_SOURCE", "nats")

	switch repoSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock repository")
		storage = infrastructure.NewMockRepository()
	case "nats":
		slog.InfoContext(ctx, "initializing NATS repository")
		client := natsClientImpl(ctx)
		if client == nil {
			log.Fatalf("failed to initialize NATS client")
		}
		storage = nats.NewStorage(client)
	default:
		log.Fatalf("unsupported repository implementation: %s", repoSource)
	}

	return storage
}

// MessagePublisher initializes the publisher matching the repository source
func MessagePublisher(ctx context.Context) port.MessagePublisher {
	var publisher port.MessagePublisher

	repoSource := sourceFromEnv("REPOSITORY_SOURCE", "nats")

	switch repoSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock message publisher")
		publisher = infrastructure.NewMockMessagePublisher()
	case "nats":
		slog.InfoContext(ctx, "initializing NATS message publisher")
		publisher = nats.NewMessagePublisher(natsClientImpl(ctx))
	default:
		log.Fatalf("unsupported message publisher implementation: %s", repoSource)
	}

	return publisher
}

// AuthService initializes the authentication service implementation
func AuthService(ctx context.Context) port.Authenticator {
	var authService port.Authenticator

	authSource := sourceFromEnv("AUTH_SOURCE", "jwt")

	switch authSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock authentication service")
		authService = infrastructure.NewMockAuthService()
	case "jwt":
		slog.InfoContext(ctx, "initializing JWT authentication service")
		jwtConfig := auth.JWTAuthConfig{
			JWKSURL:  os.Getenv("JWKS_URL"),
			Audience: os.Getenv("JWT_AUDIENCE"),
		}
		jwtAuth, err := auth.NewJWTAuth(jwtConfig)
		if err != nil {
			log.Fatalf("failed to initialize JWT authentication service: %v", err)
		}
		authService = jwtAuth
	default:
		log.Fatalf("unsupported authentication service implementation: %s", authSource)
	}

	return authService
}

// AccessChecker initializes the permission checker implementation
func AccessChecker(ctx context.Context) port.AccessChecker {
	var checker port.AccessChecker

	accessSource := sourceFromEnv("ACCESS_SOURCE", "nats")

	switch accessSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock access checker")
		mockChecker := infrastructure.NewMockAccessChecker()
		// the local principal administers everything
		if principal := os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"); principal != "" {
			mockChecker.GrantPermission(principal, constants.PermissionAdministerMailingLists)
			mockChecker.GrantPermission(principal, constants.PermissionAdministerSubscriptions)
		}
		checker = mockChecker
	case "nats":
		slog.InfoContext(ctx, "initializing NATS access checker")
		checker = nats.NewAccessChecker(natsClientImpl(ctx))
	default:
		log.Fatalf("unsupported access checker implementation: %s", accessSource)
	}

	return checker
}

// UserReader initializes the username lookup implementation
func UserReader(ctx context.Context) port.UserReader {
	var reader port.UserReader

	userSource := sourceFromEnv("USER_SOURCE", "nats")

	switch userSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock user reader")
		reader = infrastructure.NewMockUserReader()
	case "nats":
		slog.InfoContext(ctx, "initializing NATS user reader")
		reader = nats.NewUserReader(natsClientImpl(ctx))
	case "auth0":
		slog.InfoContext(ctx, "initializing Auth0 user reader")
		auth0Reader, err := auth0.NewUserReader(ctx, auth0.Config{
			Domain:       os.Getenv("AUTH0_DOMAIN"),
			ClientID:     os.Getenv("AUTH0_CLIENT_ID"),
			ClientSecret: os.Getenv("AUTH0_CLIENT_SECRET"),
		})
		if err != nil {
			log.Fatalf("failed to initialize Auth0 user reader: %v", err)
		}
		reader = auth0Reader
	default:
		log.Fatalf("unsupported user reader implementation: %s", userSource)
	}

	return reader
}

// Catalog loads the embedded translation catalog
func Catalog(ctx context.Context) *i18n.Catalog {
	catalog, err := i18n.NewDefaultCatalog()
	if err != nil {
		log.Fatalf("failed to load translation catalog: %v", err)
	}
	slog.InfoContext(ctx, "translation catalog loaded", "languages", len(catalog.Languages()))
	return catalog
}

// DateFormatter builds the date formatter for the TIMEZONE environment variable
func DateFormatter(ctx context.Context) *i18n.DateFormatter {
	formatter, err := i18n.NewDateFormatter(os.Getenv("TIMEZONE"))
	if err != nil {
		log.Fatalf("invalid TIMEZONE: %v", err)
	}
	return formatter
}

// FlashStore builds the status message cookie store
func FlashStore(ctx context.Context) *flash.Store {
	secure := os.Getenv("FLASH_COOKIE_SECURE") != "false"
	slog.DebugContext(ctx, "initializing flash store", "secure", secure)
	return flash.NewStore(os.Getenv("FLASH_COOKIE_NAME"), secure)
}

// Routes builds the router; FORMS_BASE_URL points at the service serving the edit and access forms
func Routes(ctx context.Context) *Router {
	formsBaseURL := os.Getenv("FORMS_BASE_URL")
	routes, err := NewRouter(formsBaseURL)
	if err != nil {
		log.Fatalf("invalid FORMS_BASE_URL: %v", err)
	}
	if formsBaseURL == "" {
		slog.WarnContext(ctx, "FORMS_BASE_URL not set, edit and access form links are omitted")
	}
	return routes
}

// Close releases the shared connections opened by the providers
func Close() error {
	if natsClient != nil {
		return natsClient.Close()
	}
	return nil
}
