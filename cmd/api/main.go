package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dentaldesk/clinic-scheduler/internal/config"
	dbpkg "github.com/dentaldesk/clinic-scheduler/internal/db"
	infraRepo "github.com/dentaldesk/clinic-scheduler/internal/infra/repository"
	"github.com/dentaldesk/clinic-scheduler/internal/lock"
	"github.com/dentaldesk/clinic-scheduler/internal/logger"
	"github.com/dentaldesk/clinic-scheduler/internal/metrics"
	"github.com/dentaldesk/clinic-scheduler/internal/routes"
	"github.com/dentaldesk/clinic-scheduler/internal/sweeper"
	ucAppointment "github.com/dentaldesk/clinic-scheduler/internal/usecase/appointment"
)

func main() {

	cfg := config.Load()

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db := dbpkg.NewDB(cfg)

	redisClient, err := lock.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		zlog.Fatal("failed to connect redis", zap.Error(err))
	}
	locker := lock.NewRedisBookingLocker(redisClient, cfg.LockTTL)

	collector := metrics.NewCollector()

	r := gin.Default()
	routes.RegisterRoutes(r, db, cfg, locker, collector, zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	markNoShowsUC := ucAppointment.NewMarkNoShows(
		infraRepo.NewAppointmentGormRepository(db),
		collector,
		zlog,
		cfg.NoShowGrace,
	)
	sw := sweeper.New(markNoShowsUC, zlog, cfg.SweepStartupDelay, cfg.SweepInterval)
	go sw.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("forced shutdown", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		zlog.Error("redis close", zap.Error(err))
	}
}
