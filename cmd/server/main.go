package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"calclog/internal/api"
	"calclog/internal/config"
	"calclog/internal/logging"
	"calclog/pkg/calclog"
)

func main() {
	var dataDir string
	var port int
	var host string
	var currency string

	flag.StringVar(&dataDir, "data-dir", "", "Directory for storing the journal database and logs")
	flag.IntVar(&port, "port", 8000, "Port to run the server on")
	flag.StringVar(&host, "host", "127.0.0.1", "Host to bind the server to")
	flag.StringVar(&currency, "local-currency", "", "Currency quoted assets convert into (default from config)")
	flag.Parse()

	if dataDir != "" {
		config.SetRuntimeDataDir(dataDir)
	}

	resolvedDataDir, err := config.GetDataDir()
	if err != nil {
		slog.Error("failed to resolve data directory", "err", err)
		os.Exit(1)
	}
	logDir := filepath.Join(resolvedDataDir, "logs")
	logger, writer, err := logging.NewLogger(logDir)
	if err != nil {
		slog.Error("failed to initialize logger", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close log writer", "err", err)
		}
	}()

	dbPath, err := config.GetDBPath()
	if err != nil {
		logger.Error("failed to resolve db path", "err", err)
		os.Exit(1)
	}
	if strings.TrimSpace(currency) == "" {
		currency = config.GetLocalCurrency()
	}

	core, err := calclog.OpenWithOptions(calclog.Options{
		DBPath:        dbPath,
		Logger:        logger,
		LocalCurrency: currency,
	})
	if err != nil {
		logger.Error("failed to initialize core", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := core.Close(); err != nil {
			logger.Error("failed to close core", "err", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", host, port)
	handler := middleware.Compress(5)(api.NewRouter(core, logger))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", addr, "db_path", core.DBPath(), "local_currency", core.LocalCurrency())
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
}
