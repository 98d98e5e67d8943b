package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"citymap_discord_bot/internal/geo"
)

// PostgresCatalog cities テーブルを参照するカタログ
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgresCatalog Postgres上のカタログを作成
func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) Lookup(ctx context.Context, name string) (geo.Coordinates, bool, error) {
	var coords geo.Coordinates
	err := c.db.QueryRowContext(ctx,
		`SELECT lat, lng FROM cities WHERE city = $1`,
		name,
	).Scan(&coords.Lat, &coords.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return geo.Coordinates{}, false, nil
	}
	if err != nil {
		return geo.Coordinates{}, false, fmt.Errorf("lookup city %q: %w", name, err)
	}
	return coords, true, nil
}

func (c *PostgresCatalog) List(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT city FROM cities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return out, nil
}

// CityID 都市名からIDを取得（ブックマーク保存用）
func (c *PostgresCatalog) CityID(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := c.db.QueryRowContext(ctx, `SELECT id FROM cities WHERE city = $1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup city id %q: %w", name, err)
	}
	return id, true, nil
}

// Seed 都市をcitiesテーブルへ投入（既存の名前はスキップ）
func Seed(ctx context.Context, db *sql.DB, cities []geo.City) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, city := range cities {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO cities (city, lat, lng) VALUES ($1, $2, $3) ON CONFLICT (city) DO NOTHING`,
			city.Name, city.Lat, city.Lng,
		)
		if err != nil {
			return 0, fmt.Errorf("seed city %q: %w", city.Name, err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return inserted, nil
}
