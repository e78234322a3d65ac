package main

import (
	"context"
	"log"

	"github.com/AmlrSF/portfolio-client/config"
	"github.com/AmlrSF/portfolio-client/internal/bootstrap"
	"github.com/AmlrSF/portfolio-client/internal/gallery/trending"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.DSN()})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("failed to open redis: %v", err)
	}
	defer rdb.Close()

	tracker := trending.NewTracker(rdb, cfg.App.TrendingWindow)
	trending.NewScheduler(tracker).Start()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "portfolio-gallery",
		Version:        cfg.App.Version,
		DB:             db,
		Redis:          rdb,
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		TrendingWindow: cfg.App.TrendingWindow,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
