package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	invoicemiddleware "github.com/ginjaninja78/payment-advice-generator/internal/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router http.Handler
	logger *zerolog.Logger
	server *http.Server

	shutdownTimeout time.Duration
}

type Dependencies struct {
	Invoices InvoiceService
	Config   *config.MainConfig
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration

	// MaxUploadBytes bounds the request body; zero means unbounded.
	MaxUploadBytes int64

	// ArchiveName is the download file name pattern.
	ArchiveName string

	Dependencies Dependencies
}

// ConfigureRouter builds the HTTP routes.
func ConfigureRouter(logger zerolog.Logger, cfg Config) http.Handler {
	handler := NewHandler(
		cfg.Dependencies.Invoices,
		cfg.Dependencies.Config,
		cfg.MaxUploadBytes,
		cfg.ArchiveName,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(invoicemiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", handler.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/invoices", handler.Generate)
		r.Post("/invoices/preview", handler.Preview)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, cfg Config) *WebAPI {
	router := ConfigureRouter(logger, cfg)

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
