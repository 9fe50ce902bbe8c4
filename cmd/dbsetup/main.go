// Command dbsetup ensures the optional Postgres uploads table exists. The
// core server runs entirely on the JSON collections and never needs this.
package main

import (
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"talentbridge/internal/bootstrap"
	"talentbridge/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	_ = godotenv.Load()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Sugar.Fatal("DATABASE_URL is not set.")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.Sugar.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := bootstrap.EnsureUploadsTable(db); err != nil {
		logger.Sugar.Fatalf("Database setup failed: %v", err)
	}
	logger.Sugar.Info("Database setup complete: uploads table ensured.")
}
