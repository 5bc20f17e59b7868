package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"design-studio/internal/config"
	"design-studio/internal/database"
	"design-studio/internal/handlers"
	"design-studio/internal/job"
	"design-studio/internal/logger"
	"design-studio/internal/media"
	"design-studio/internal/server"
	"design-studio/internal/service"
	"design-studio/internal/store"
	"design-studio/internal/validation"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.Open(database.Options{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DBDSN,
		Debug:    cfg.LogLevel == "debug",
		Attempts: 10,
	})
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	ctx := context.Background()
	if err := database.EnsureSuperuser(ctx, db, database.Admin{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Email:    cfg.AdminEmail,
	}); err != nil {
		log.Fatal("failed to seed superuser", zap.Error(err))
	}

	files, err := media.NewOsStore(cfg.MediaRoot)
	if err != nil {
		log.Fatal("failed to open media storage", zap.Error(err))
	}

	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	applications := store.NewApplicationStore(db)
	audit := store.NewAuditStore(db)
	v := validation.New()

	accounts := service.NewAccounts(users, audit, v)
	h := handlers.New(
		accounts,
		service.NewApplications(applications, categories, audit, files, v),
		service.NewCategories(categories, audit, files, v),
		service.NewAudit(audit),
	)

	r, err := server.NewRouter(cfg, server.Deps{
		Handlers: h,
		Identity: accounts,
		Media:    files.HTTP(),
	})
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	scheduler := job.NewScheduler()
	if err := scheduler.Add("@daily", job.NewAuditCleanupJob(audit, cfg.AuditRetentionDays)); err != nil {
		log.Fatal("failed to schedule audit cleanup", zap.Error(err))
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	scheduler.Stop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
