package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyashahama/giftie-backend/internal/ai"
	"github.com/nyashahama/giftie-backend/internal/api"
	"github.com/nyashahama/giftie-backend/internal/config"
	"github.com/nyashahama/giftie-backend/internal/db"
	"github.com/nyashahama/giftie-backend/internal/email"
	"github.com/nyashahama/giftie-backend/internal/metrics"
	"github.com/nyashahama/giftie-backend/internal/postcard"
	stripeinternal "github.com/nyashahama/giftie-backend/internal/stripe"
	"github.com/nyashahama/giftie-backend/internal/suggest"
	"github.com/nyashahama/giftie-backend/internal/worker"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(true)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cfg, logger)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port, "db_driver", cfg.DBDriver)

	// Root context cancelled by OS signal. Worker and HTTP server both respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(pool); err != nil {
		return err
	}
	queries := db.New(pool)
	logger.Info("database ready")

	m := metrics.New()

	// ── Stripe ────────────────────────────────────────────────────────────────
	stripeClient := stripeinternal.NewClient(cfg.StripeSecretKey, stripeinternal.Options{
		Currency:   cfg.CheckoutCurrency,
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	})

	// ── Message writer ────────────────────────────────────────────────────────
	// OpenAI-compatible is primary, Anthropic the fallback. With neither key
	// configured, generated messages use the canned fallback text.
	var writer ai.Writer
	switch {
	case cfg.OpenAIAPIKey != "" && cfg.AnthropicAPIKey != "":
		writer = ai.NewFallbackWriter(
			ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL),
			ai.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel),
			logger,
		)
		logger.Info("ai: using OpenAI-compatible with Anthropic fallback")
	case cfg.OpenAIAPIKey != "":
		writer = ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		logger.Info("ai: using OpenAI-compatible only", "model", cfg.OpenAIModel)
	case cfg.AnthropicAPIKey != "":
		writer = ai.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		logger.Info("ai: using Anthropic only", "model", cfg.AnthropicModel)
	default:
		logger.Warn("ai: no provider configured, generated messages will use the fallback")
	}

	// ── Email ─────────────────────────────────────────────────────────────────
	var mailer email.Sender
	if cfg.UseResend() {
		mailer = email.NewResendClient(cfg.ResendAPIKey, cfg.EmailFromAddr, cfg.EmailFromName, cfg.BaseURL)
		logger.Info("email: using Resend")
	} else {
		mailer = email.NewSMTPClient(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			FromName: cfg.EmailFromName,
			BaseURL:  cfg.BaseURL,
		})
		logger.Info("email: using SMTP", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	}

	// ── Render pool ───────────────────────────────────────────────────────────
	runner := worker.NewRunner(worker.RunnerConfig{
		Workers:    cfg.RenderWorkers,
		JobTimeout: cfg.RenderTimeout,
	}, logger)

	postcards := postcard.NewService(postcard.Config{
		Renderer: postcard.NewChromeRenderer(cfg.ChromePath),
		Pool:     runner, // *Runner satisfies worker.Submitter
		Writer:   writer,
		Dir:      cfg.PostcardDir,
		Metrics:  m,
		Logger:   logger,
	})

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		queries,
		suggest.New(nil),
		stripeClient,
		postcards,
		mailer,
		m,
		api.Config{
			Env:            cfg.Env,
			PostcardDir:    cfg.PostcardDir,
			RequestTimeout: cfg.RequestTimeout(),
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the render pool in a background goroutine. It blocks until ctx is done.
	poolDone := make(chan struct{})
	go func() {
		runner.Start(ctx)
		close(poolDone)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		stop()
		<-poolDone
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight HTTP requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	<-poolDone
	logger.Info("shutdown complete")
	return nil
}
