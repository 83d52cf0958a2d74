package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/cartbot/internal/bmapi"
	"github.com/user/cartbot/internal/catalog"
	"github.com/user/cartbot/internal/config"
	"github.com/user/cartbot/internal/dedup"
	"github.com/user/cartbot/internal/dispatch"
	"github.com/user/cartbot/internal/store"
	"github.com/user/cartbot/internal/ui"
	"github.com/user/cartbot/internal/webhook"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cartbot daemon",
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "cartbot.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile != "" {
		return catalog.LoadFile(cfg.CatalogFile)
	}
	return catalog.Default(), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	// Storage
	db, err := store.Open(filepath.Join(cfg.DataDir, "cartbot.db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := store.EnsureSchema(db); err != nil {
		return err
	}
	carts := store.NewCarts(db, cfg.Cart.ItemCap)

	// Catalog
	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	// Dedup cache
	cache := dedup.New(cfg.Dedup.MaxEntries, time.Duration(cfg.Dedup.TTLMinutes)*time.Minute)

	// Outbound transport
	if cfg.Agent.CredentialsFile == "" {
		return fmt.Errorf("agent.credentials_file is required (or set BM_CREDENTIALS_FILE)")
	}
	transport, err := bmapi.New(cfg.Agent.CredentialsFile, cfg.Agent.APIBaseURL, cfg.Agent.Name)
	if err != nil {
		return fmt.Errorf("create messaging client: %w", err)
	}

	dispatcher := dispatch.New(carts, cache, cat, ui.NewBuilder(cat), transport)
	srv := webhook.NewServer(dispatcher.Handle, int64(cfg.MaxConcurrent))

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("cartbot started",
			"listen", cfg.Listen,
			"data_dir", cfg.DataDir,
			"log_level", cfg.LogLevel,
			"catalog_items", cat.Len(),
			"max_concurrent", cfg.MaxConcurrent,
			"pid_file", pidPath,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("webhook server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	slog.Info("shutting down", "signal", sig)
	return nil
}
