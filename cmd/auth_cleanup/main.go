package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"hotelbooking/internal/database"
	"hotelbooking/internal/repository"
)

// Purges expired refresh tokens and password resets. Run from cron.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()

	if err := repository.NewRefreshTokenRepository(db).DeleteExpired(ctx); err != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", err)
	}
	if err := repository.NewPasswordResetRepository(db).DeleteExpired(ctx); err != nil {
		log.Fatalf("cleanup password_resets failed: %v", err)
	}

	log.Println("auth cleanup completed")
}
