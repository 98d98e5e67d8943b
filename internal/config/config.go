package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ブックマークの保存先
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Token         string
	CommandPrefix string

	CatalogSeed     string // 空なら埋め込みの都市リスト
	BookmarkBackend string
	DataDir         string
	DatabaseURL     string // 設定するとカタログもPostgresから読む

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BasemapGeoJSON       string
	LabelFont            string // CJKなどGo Boldにない文字を含む場合のフォント
	MapWidth             int
	MaxConcurrentRenders int64

	MetricsAddr string
}

// Load .env があれば読み込んでから環境変数を読む
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Token:           os.Getenv("DISCORD_TOKEN"),
		CommandPrefix:   getEnv("COMMAND_PREFIX", "!"),
		CatalogSeed:     os.Getenv("CATALOG_SEED"),
		BookmarkBackend: strings.ToLower(getEnv("BOOKMARK_BACKEND", BackendFile)),
		DataDir:         getEnv("DATA_DIR", "data"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		BasemapGeoJSON:  os.Getenv("BASEMAP_GEOJSON"),
		LabelFont:       os.Getenv("LABEL_FONT"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.MapWidth, err = getInt("MAP_WIDTH", 1440); err != nil {
		return nil, err
	}
	renders, err := getInt("MAX_CONCURRENT_RENDERS", 4)
	if err != nil {
		return nil, err
	}
	cfg.MaxConcurrentRenders = int64(renders)
	return cfg, nil
}

// Validate 起動に必要な値が揃っているか
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is not set")
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("COMMAND_PREFIX must not be empty")
	}
	switch c.BookmarkBackend {
	case BackendFile:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("BOOKMARK_BACKEND=postgres requires DATABASE_URL")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("BOOKMARK_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown BOOKMARK_BACKEND %q (file, postgres, redis)", c.BookmarkBackend)
	}
	if c.MapWidth < 360 {
		return fmt.Errorf("MAP_WIDTH must be at least 360, got %d", c.MapWidth)
	}
	if c.MaxConcurrentRenders < 1 {
		return fmt.Errorf("MAX_CONCURRENT_RENDERS must be positive, got %d", c.MaxConcurrentRenders)
	}
	return nil
}

// BookmarksPath ファイル保存時のパス
func (c *Config) BookmarksPath() string {
	return filepath.Join(c.DataDir, "bookmarks.json")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
