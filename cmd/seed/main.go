package main

import (
	"context"
	"flag"
	"time"

	"careboard/internal/cache"
	"careboard/internal/config"
	"careboard/internal/database"
	"careboard/internal/modules/auth"
	"careboard/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	cfgFile := flag.String("config", "", "config file")
	flag.Parse()

	if err := config.InitConfig(*cfgFile); err != nil {
		logrus.WithError(err).Fatal("config init failed")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("DB connection failed")
	}

	logrus.Info("Running AutoMigrate...")
	if err := database.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("AutoMigrate failed")
	}

	logrus.Info("Seeding demo data...")
	if err := database.Seed(db, time.Now()); err != nil {
		logrus.WithError(err).Fatal("seed failed")
	}
	if cfg.Redis.Addr != "" {
		invalidateRoster(db, cfg)
	}
	logrus.Info("Seed complete. RVP logins: rvp.west@example.com, rvp.east@example.com")
}

// invalidateRoster drops the cached RVP roster so running servers pick up the
// reseeded rvps table on their next lookup.
func invalidateRoster(db *gorm.DB, cfg *config.Config) {
	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, cached RVP roster left in place")
		return
	}
	defer rdb.Close()

	directory := auth.NewDirectory(repository.NewRVPRepository(db), cache.NewClient(rdb), cfg.Redis.RVPTTL, logrus.StandardLogger())
	if err := directory.Invalidate(context.Background()); err != nil {
		logrus.WithError(err).Warn("failed to drop cached RVP roster")
		return
	}
	logrus.Info("Cached RVP roster dropped")
}
