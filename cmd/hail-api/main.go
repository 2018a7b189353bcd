// README: Entry point; loads config, wires collaborators, starts the webhook server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hail/internal/config"
	httptransport "hail/internal/http"
	"hail/internal/http/handlers"
	"hail/internal/infra"
	"hail/internal/logger"
	"hail/internal/modules/conversation"
	"hail/internal/modules/lifecycle"
	"hail/internal/modules/offer"
	"hail/internal/modules/ride"
	"hail/internal/modules/user"
	"hail/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("connect database", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer func() { _ = redisClient.Close() }()

	userStore := user.NewStore(dbPool)
	rideStore := ride.NewStore(dbPool)
	offerStore := offer.NewStore(redisClient)
	if err := offerStore.SeedDefaults(ctx); err != nil {
		zlog.Warn("seed offer pools, falling back to built-in candidates", zap.Error(err))
	}
	offers := offer.NewSimulator(offerStore)

	var sink notify.Sink
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		sink = notify.NewTwilioSink(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	} else {
		zlog.Info("twilio credentials not set, using log sink")
		sink = notify.NewLogSink(zlog)
	}

	progress := lifecycle.FixedDelay{Step: time.Duration(cfg.Lifecycle.StepSeconds) * time.Second}
	registry := lifecycle.NewRegistry(rideStore, userStore, sink, progress, zlog)

	convSvc := conversation.NewService(userStore, rideStore, offers, registry, zlog)

	router := httptransport.NewRouter(
		handlers.NewWebhookHandler(convSvc),
		handlers.NewRideHandler(rideStore),
		zlog,
	)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Warn("server shutdown", zap.Error(err))
		}
		registry.Shutdown()
	}()

	zlog.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("serve", zap.Error(err))
	}
}
