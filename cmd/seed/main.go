package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"citymap_discord_bot/internal/catalog"
	"citymap_discord_bot/internal/config"
	"citymap_discord_bot/internal/db"
)

// cities テーブルをシードファイルから投入する
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mem *catalog.MemoryCatalog
	if cfg.CatalogSeed != "" {
		mem, err = catalog.LoadFile(cfg.CatalogSeed)
	} else {
		mem, err = catalog.LoadDefault()
	}
	if err != nil {
		log.Fatalf("Failed to load catalog seed: %v", err)
	}

	pg, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	if err := db.Migrate(ctx, pg); err != nil {
		log.Fatal(err)
	}
	cities := mem.Cities()
	inserted, err := catalog.Seed(ctx, pg, cities)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Seeded %d of %d cities (existing names skipped)", inserted, len(cities))
}
