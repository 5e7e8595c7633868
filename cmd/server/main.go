// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/database"
	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/ledger"
	"github.com/otakughor/backend/internal/router"
	"github.com/otakughor/backend/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	utils.ConfigureLogger(cfg.Log, cfg.IsProduction())

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}
	i18n.SetDefault(cfg.I18n.DefaultLocale)

	// Open the document store
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := database.Open(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logrus.WithError(err).Error("Error closing store")
		}
	}()

	// Ledger mirror
	var workers sync.WaitGroup
	outbox := ledger.NewOutbox(st, cfg.Sheets)
	if outbox.Enabled() {
		worker := ledger.NewWorker(outbox, ledger.NewClient(cfg.Sheets.WebhookURL, cfg.Sheets.Secret, cfg.Sheets.Timeout), cfg.Sheets)
		workers.Add(1)
		go func() {
			defer workers.Done()
			worker.Run(ctx)
		}()
	} else {
		logrus.Info("Ledger mirror disabled, SHEETS_WEBHOOK_URL is empty")
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r, err := router.Initialize(st, cfg, outbox, ctx.Done())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":  srv.Addr,
			"store": cfg.Store.Driver,
			"env":   cfg.Environment,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	// Stop the ledger worker and rate limiter cleanup
	stop()
	workers.Wait()

	logrus.Info("Server exited")
}
