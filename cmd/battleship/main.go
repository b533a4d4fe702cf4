// cmd/battleship/main.go
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/takashiotakes/BattleShipGame/internal/config"
	"github.com/takashiotakes/BattleShipGame/internal/history"
	"github.com/takashiotakes/BattleShipGame/internal/server"
	"github.com/takashiotakes/BattleShipGame/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the service config file")
	flag.Parse()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("LOG_LEVEL") == "debug" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	cfg = config.ApplyEnv(cfg)

	// The historian and store are optional collaborators: matches run fully
	// in memory when neither is configured.
	if cfg.Redis.Addr != "" {
		if err := history.Connect(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			logrus.WithError(err).Warn("historian unavailable, match actions will not be recorded")
		}
	}
	if cfg.Database.DSN != "" {
		ctx := context.Background()
		if err := store.Connect(ctx, cfg.Database.DSN); err != nil {
			logrus.WithError(err).Warn("store unavailable, match snapshots will not be persisted")
		} else if err := store.Migrate(ctx); err != nil {
			logrus.WithError(err).Warn("store migration failed")
		}
		defer store.Close()
	}

	srv := server.New(cfg)
	if err := srv.ListenAndServe(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
