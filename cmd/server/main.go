package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/thanhnp/pow-ledger/internal/api"
	"github.com/thanhnp/pow-ledger/internal/chain"
	"github.com/thanhnp/pow-ledger/internal/config"
	"github.com/thanhnp/pow-ledger/internal/ledger"
	"github.com/thanhnp/pow-ledger/internal/logging"
	"github.com/thanhnp/pow-ledger/internal/models"
	"github.com/thanhnp/pow-ledger/internal/notifier"
	"github.com/thanhnp/pow-ledger/internal/storage"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %+v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	log.WithField("difficulty", cfg.Mining.Difficulty).Info("Starting pow-ledger server, mining genesis block...")

	start := time.Now()
	c, err := chain.New(chain.SystemClock{}, chain.WithMiner(cfg.Miner()))
	if err != nil {
		return errors.Wrap(err, "failed to mine genesis block")
	}
	log.WithField("elapsed", time.Since(start)).Info("Genesis block mined")

	db, err := storage.NewMemDB()
	if err != nil {
		return errors.Wrap(err, "failed to open block index")
	}
	defer db.Close()

	n := notifier.New()
	n.OnBlockConnected(func(b *models.Block) error {
		log.WithFields(logrus.Fields{
			"height": b.Height,
			"hash":   b.Hash,
			"nonce":  b.Nonce,
		}).Debug("Block connected")
		return nil
	})

	svc := ledger.NewService(c, storage.NewBlockStore(db), n, log)
	if err := svc.Start(); err != nil {
		return errors.Wrap(err, "failed to start ledger")
	}

	router := api.NewRouter(svc, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router.Engine(),
		// POST /api/v1/blocks holds the connection while mining.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		log.WithField("addr", addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return errors.Wrap(err, "HTTP server error")
	}

	log.Info("Shutting down...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	log.Info("Server stopped")
	return nil
}
