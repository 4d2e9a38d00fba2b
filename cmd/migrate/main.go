package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tavola/internal/database"
)

func main() {
	dir := flag.String("dir", defaultDir(), "directory containing *.up.sql files")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall migration deadline")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := database.ApplyMigrations(ctx, db, *dir); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("migrations applied successfully from %s", *dir)
}

func defaultDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "./migrations"
}
