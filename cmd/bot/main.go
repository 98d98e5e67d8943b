package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"citymap_discord_bot/internal/atlas"
	"citymap_discord_bot/internal/bookmarks"
	"citymap_discord_bot/internal/catalog"
	"citymap_discord_bot/internal/config"
	"citymap_discord_bot/internal/db"
	"citymap_discord_bot/internal/handler"
	"citymap_discord_bot/internal/mapview"
	"citymap_discord_bot/internal/metrics"
	"citymap_discord_bot/internal/models"
	"citymap_discord_bot/internal/version"
)

// Postgresカタログの一覧・座標キャッシュの有効期限
const postgresCatalogTTL = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Printf("City Map Bot v%s starting (%s)", version.Version, time.Now().Format("2006-01-02"))

	var pg *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		pg, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := db.Migrate(ctx, pg); err != nil {
			return err
		}
		log.Println("Database migrations applied")
	}

	cat, err := openCatalog(cfg, pg)
	if err != nil {
		return err
	}

	store, closeStore, err := openBookmarks(ctx, cfg, cat, pg)
	if err != nil {
		return err
	}
	defer closeStore()

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
	}

	svc := atlas.New(cat, store, renderer, m)
	botInfo := models.NewBotInfo(version.Version, cfg.BookmarkBackend)
	h := handler.NewHandler(cfg.CommandPrefix, botInfo, svc, m)

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent
	dg.AddHandler(h.OnReady)
	dg.AddHandler(h.OnMessage)
	dg.AddHandler(h.OnInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer dg.Close()

	log.Printf("Bot is running with prefix %q. Press Ctrl+C to exit.", cfg.CommandPrefix)
	<-ctx.Done()
	log.Println("Shutting down...")
	return nil
}

// openCatalog DATABASE_URL があればPostgres、なければシードファイル
func openCatalog(cfg *config.Config, pg *sql.DB) (catalog.Catalog, error) {
	if pg != nil {
		log.Println("City catalog: postgres")
		// cmd/seed で稼働中に追加された都市も一覧に反映する
		return catalog.NewCached(catalog.NewPostgresCatalog(pg), postgresCatalogTTL), nil
	}

	var (
		mem *catalog.MemoryCatalog
		err error
	)
	if cfg.CatalogSeed != "" {
		mem, err = catalog.LoadFile(cfg.CatalogSeed)
	} else {
		mem, err = catalog.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("load city catalog: %w", err)
	}
	log.Printf("City catalog: %d cities from seed", len(mem.Cities()))
	return catalog.NewCached(mem, 0), nil
}

func openBookmarks(ctx context.Context, cfg *config.Config, cat catalog.Catalog, pg *sql.DB) (bookmarks.Store, func(), error) {
	noop := func() {}
	switch cfg.BookmarkBackend {
	case config.BackendPostgres:
		if pg == nil {
			return nil, noop, fmt.Errorf("postgres bookmarks require DATABASE_URL")
		}
		log.Println("Bookmark storage: postgres")
		return bookmarks.NewPostgresStore(pg), noop, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connect redis: %w", err)
		}
		log.Printf("Bookmark storage: redis (%s)", cfg.RedisAddr)
		return bookmarks.NewRedisStore(client, cat, ""), func() { client.Close() }, nil
	default:
		store, err := bookmarks.NewFileStore(cfg.BookmarksPath(), cat)
		if err != nil {
			return nil, noop, fmt.Errorf("open bookmark file: %w", err)
		}
		log.Printf("Bookmark storage: file (%s)", cfg.BookmarksPath())
		return store, noop, nil
	}
}

func newRenderer(cfg *config.Config) (*mapview.Renderer, error) {
	opts := mapview.Options{
		Width:         cfg.MapWidth,
		MaxConcurrent: cfg.MaxConcurrentRenders,
	}
	if cfg.BasemapGeoJSON != "" {
		bm, err := mapview.LoadBasemap(cfg.BasemapGeoJSON)
		if err != nil {
			return nil, err
		}
		opts.Basemap = bm
	}
	if cfg.LabelFont != "" {
		ttf, err := os.ReadFile(cfg.LabelFont)
		if err != nil {
			return nil, fmt.Errorf("read label font: %w", err)
		}
		opts.LabelFont = ttf
	}
	start := time.Now()
	r, err := mapview.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create map renderer: %w", err)
	}
	w, h := r.Size()
	log.Printf("Map renderer ready: %dx%d in %s", w, h, time.Since(start).Round(time.Millisecond))
	return r, nil
}
