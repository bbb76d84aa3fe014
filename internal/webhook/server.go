// Package webhook runs the HTTP server that receives Telegram webhook updates
// and serves the liveness endpoint.
package webhook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
)

const shutdownTimeout = 10 * time.Second

// DerivePath returns the webhook URL path for a bot token. The path is a
// SHA-256 prefix of the token, so it is stable across restarts and not
// guessable without the token.
func DerivePath(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "/webhook/" + hex.EncodeToString(sum[:])[:32]
}

// Server owns the HTTP listener that feeds updates to the Telegram bot.
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	tgBot      *bot.Bot
	publicURL  string
	path       string
}

// NewServer builds the server for the given bot token and listen address.
// The webhook handler is mounted on the token-derived path; /healthz is always
// served regardless of webhook registration state.
func NewServer(logger *slog.Logger, tgBot *bot.Bot, token, listenAddr, publicURL string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "webhook_server")

	path := DerivePath(token)

	mux := http.NewServeMux()
	mux.Handle("POST "+path, tgBot.WebhookHandler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		logger: log,
		httpServer: &http.Server{
			Addr:              listenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		tgBot:     tgBot,
		publicURL: publicURL,
		path:      path,
	}
}

// Path returns the derived webhook path.
func (s *Server) Path() string {
	return s.path
}

// RegisterWebhook tells Telegram to deliver updates to the public URL plus the
// derived path. Failure is logged but not fatal: the process stays alive
// serving /healthz so an operator can fix the URL and restart registration.
func (s *Server) RegisterWebhook(ctx context.Context) {
	if s.publicURL == "" {
		s.logger.WarnContext(ctx, "No public URL configured, skipping webhook registration")
		return
	}

	url := s.publicURL + s.path
	ok, err := s.tgBot.SetWebhook(ctx, &bot.SetWebhookParams{URL: url})
	if err != nil || !ok {
		s.logger.ErrorContext(ctx, "Webhook registration failed, continuing degraded", "error", err, "url", url)
		return
	}

	s.logger.InfoContext(ctx, "Webhook registered", "url", url)
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr, "webhook_path", s.path)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown failed", "error", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
		s.logger.Info("HTTP server stopped gracefully.")
		return nil

	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}
}
