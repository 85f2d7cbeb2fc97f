package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/backend"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/proxy"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the same-origin API gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := newBackendClient()
		handler := proxy.New(client, cfg.Auth.CookieSecure)

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
		r.Mount("/", handler.Routes())

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("backend", cfg.Backend.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newBackendClient builds the upstream client from config.
func newBackendClient() backend.Client {
	opts := []backend.Option{
		backend.WithRateLimit(cfg.Backend.RateLimitRPS),
	}
	if cfg.Backend.ScraperURL != "" {
		opts = append(opts, backend.WithScraperURL(cfg.Backend.ScraperURL))
	}
	if cfg.Backend.TimeoutSecs > 0 {
		opts = append(opts, backend.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		}))
	}
	return backend.NewClient(cfg.Backend.BaseURL, opts...)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
