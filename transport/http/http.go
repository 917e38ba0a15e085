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

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/internal/automation/trigger"
	"tally/transport/http/response"
	"tally/transport/http/router"
)

type ServerState int

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const readHeaderTimeout = 10 * time.Second

type HTTP struct {
	Config  *config.Config
	Router  router.Router
	Trigger *trigger.Trigger
	State   ServerState

	server *http.Server
	cancel context.CancelFunc
}

func New(cfg *config.Config, r router.Router, t *trigger.Trigger) *HTTP {
	return &HTTP{
		Config:  cfg,
		Router:  r,
		Trigger: t,
	}
}

// Serve starts the automation trigger and the HTTP listener, and blocks
// until the server shuts down.
func (h *HTTP) Serve() {
	mux := h.setup()

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	h.Trigger.Start(ctx)
	h.setupGracefulShutdown()
	h.State = ServerStateReady

	h.server = &http.Server{
		Addr:              net.JoinHostPort("0.0.0.0", h.Config.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func (h *HTTP) setup() chi.Router {
	mux := chi.NewRouter()

	mux.Get("/health", h.HealthCheck)
	h.Router.SetupRoutes(mux)

	return mux
}

// HealthCheck reports readiness. During the shutdown grace period the
// endpoint flips unhealthy so load balancers stop routing here.
func (h *HTTP) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	if h.State != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env != "development" {
		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.State = ServerStateInGracePeriod

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)
	} else {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	}

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.State = ServerStateInCleanupPeriod

	// Stop the ticker loops and let any in-flight sweep finish before
	// the listener goes away.
	h.cancel()
	h.Trigger.Wait()

	cleanupCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := h.server.Shutdown(cleanupCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown did not complete cleanly")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
