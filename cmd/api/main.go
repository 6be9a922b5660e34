package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/defectflow/projects-service/config"
	"github.com/defectflow/projects-service/internal/bootstrap"
	"github.com/defectflow/projects-service/internal/identity"
	"github.com/defectflow/projects-service/internal/logging"
	"github.com/defectflow/projects-service/internal/projects/repository"
	"github.com/defectflow/projects-service/internal/projects/service"
)

const serviceName = "projects-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("load config: %v", err)
	}

	logging.Init(serviceName, cfg.App.Environment, cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		logging.Logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := bootstrap.Migrate(ctx, db); err != nil {
		logging.Logger.Fatalf("apply migrations: %v", err)
	}

	verifier := identity.NewClient(cfg.Auth.ServiceURL, cfg.Auth.Timeout)
	svc := service.New(repository.New(db), verifier)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		JWTSecret:   cfg.Auth.JWTSecret,
		DB:          db,
		Projects:    svc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logging.Logger.Infof("%s listening on :%s", serviceName, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("shutdown: %v", err)
	}
}
