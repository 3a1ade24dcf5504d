package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourdesk/config"
	_ "tourdesk/docs" // swagger spec
	"tourdesk/infras/metrics"
	"tourdesk/shared/constant"
	"tourdesk/transport/http/middleware"
	"tourdesk/transport/http/response"
	"tourdesk/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

const readHeaderTimeout = 10 * time.Second

type ServerState int

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

type HTTP struct {
	Config     *config.Config
	Router     router.Router
	State      ServerState
	app        middleware.AppMiddleware
	authRole   middleware.AuthRole
	metrics    metrics.Metrics
	mux        *chi.Mux
	server     *http.Server
	cleanupFns []func() error
}

func New(cfg *config.Config, r router.Router, app middleware.AppMiddleware, authRole middleware.AuthRole, metrics metrics.Metrics) *HTTP {
	return &HTTP{
		Config:   cfg,
		Router:   r,
		app:      app,
		authRole: authRole,
		metrics:  metrics,
	}
}

// OnShutdown registers a resource to close once the cleanup period ends.
func (h *HTTP) OnShutdown(fn func() error) {
	h.cleanupFns = append(h.cleanupFns, fn)
}

func (h *HTTP) Serve() {
	h.setup()

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// Handler exposes the routed mux to tests and the serverless entrypoint.
func (h *HTTP) Handler() http.Handler {
	h.setup()

	return h.mux
}

func (h *HTTP) setup() {
	if h.mux != nil {
		return
	}

	h.setupRoutes()
	h.setupGracefulShutdown()
	h.State = ServerStateReady
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.Recoverer)
	h.mux.Use(h.app.RequestID)
	h.mux.Use(h.app.Tracing)
	h.mux.Use(h.app.Metrics)

	if h.Config.App.CORS.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	h.mux.Get("/health", h.health)
	h.mux.Get("/swagger/*", httpSwagger.WrapHandler)

	if h.Config.Metrics.Enable {
		h.mux.Handle(h.Config.Metrics.Path, h.metrics.Handler())
	}

	h.mux.Group(func(r chi.Router) {
		r.Use(h.app.RateLimit())
		r.Use(h.authRole.APIKey)
		r.Use(h.authRole.Auth)
		r.Use(h.authRole.RBAC)

		h.Router.SetupRoutes(r)
	})
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	switch h.State {
	case ServerStateReady:
		response.WithMessage(w, http.StatusOK, "OK")
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	defer os.Exit(0)

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
		h.cleanup()

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.State = ServerStateInGracePeriod

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.State = ServerStateInCleanupPeriod

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if h.server != nil {
		if err := h.server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to drain HTTP server")
		}
	}

	h.cleanup()

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) cleanup() {
	for _, fn := range h.cleanupFns {
		if err := fn(); err != nil {
			log.Error().Err(err).Msg("Failed to release resource on shutdown")
		}
	}
}
