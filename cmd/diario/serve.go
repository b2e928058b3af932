package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/diarioapp/diario/internal/analysis"
	"github.com/diarioapp/diario/internal/api"
	"github.com/diarioapp/diario/internal/config"
	"github.com/diarioapp/diario/internal/googlesync"
	"github.com/diarioapp/diario/internal/journal"
	"github.com/diarioapp/diario/internal/storage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diario API server",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	groq, err := analysis.NewGroqClient(analysis.Config{
		APIKey:  cfg.Groq.APIKey,
		Model:   cfg.Groq.Model,
		BaseURL: cfg.Groq.BaseURL,
	})
	if err != nil {
		return err
	}
	analyzer := analysis.NewAnalyzer(groq, slog.Default(), analysis.Config{})
	svc := journal.NewService(store, analyzer, slog.Default())

	var google api.GoogleService
	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		gs, gErr := googlesync.NewService(googlesync.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			TimeZone:     cfg.Google.TimeZone,
		}, store, slog.Default())
		if gErr != nil {
			return gErr
		}
		google = gs
	} else {
		slog.Info("google credentials not configured, sync disabled")
	}

	router := api.NewRouter(svc, google, api.RouterConfig{
		AuthEnabled: cfg.Server.AuthToken != "",
		Token:       cfg.Server.AuthToken,
		UserID:      cfg.Server.UserID,
		AppURL:      cfg.Server.AppURL,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("diario server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
