package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hieptuanle/baby-tracker/internal/config"
	"github.com/hieptuanle/baby-tracker/internal/database"
	"github.com/hieptuanle/baby-tracker/internal/logger"
	"github.com/hieptuanle/baby-tracker/internal/router"
	"github.com/hieptuanle/baby-tracker/internal/service"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	log, closer, err := logger.FromConfig(cfg.Log)
	if err != nil {
		stdlog.Fatalf("init logger: %v", err)
	}
	defer closer.Close()

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("init database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("get sql db")
	}
	defer sqlDB.Close()

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	st := database.NewStore(db)

	sessions := service.NewSessionManager(st.Sessions(), cfg.Session.TTL(), time.Now)
	if n, err := sessions.PurgeExpired(context.Background()); err != nil {
		log.Warn().Err(err).Msg("purge expired sessions")
	} else {
		log.Info().Int64("purged", n).Msg("expired sessions purged")
	}

	// setup router
	r, err := router.SetupRouter(cfg, st, log, time.Now)
	if err != nil {
		log.Fatal().Err(err).Msg("setup router")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("run server")
		}
	}()

	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
