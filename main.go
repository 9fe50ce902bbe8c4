package main

import (
	"net/http"

	"github.com/robfig/cron/v3"

	"talentbridge/config"
	"talentbridge/internal/docstore"
	"talentbridge/internal/storage"
	"talentbridge/middleware"
	"talentbridge/pkg/logger"
	"talentbridge/router"
	"talentbridge/socket"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := docstore.Open(cfg.DataDir)
	if err != nil {
		logger.Sugar.Fatalf("Failed to open data directory %s: %v", cfg.DataDir, err)
	}
	store := storage.NewAdapter(db)

	hub := socket.NewHub()
	go hub.Run()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.AdCleanupSchedule, func() {
		deleted, err := store.DeleteExpiredAdvertisements()
		if err != nil {
			logger.Sugar.Errorf("Expired advertisement sweep failed: %v", err)
			return
		}
		if deleted > 0 {
			logger.Sugar.Infof("Expired advertisement sweep removed %d ads", deleted)
		}
	}); err != nil {
		logger.Sugar.Fatalf("Invalid AD_CLEANUP_SCHEDULE %q: %v", cfg.AdCleanupSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	auth := middleware.NewAuth(cfg.JWTSecret)
	handler := router.Setup(store, hub, auth, cfg.AllowedOrigin)

	logger.Sugar.Infof("Server starting on port %s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
