package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore users_cities テーブルに保存するブックマーク
// (user_id, city_id) の主キーで一意性を保証する
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Add(ctx context.Context, user, cityName string) (AddResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NoResult, fmt.Errorf("begin add bookmark: %w", err)
	}
	defer tx.Rollback()

	var cityID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM cities WHERE city = $1`, cityName).Scan(&cityID)
	if errors.Is(err, sql.ErrNoRows) {
		return CityNotFound, nil
	}
	if err != nil {
		return NoResult, fmt.Errorf("lookup city %q: %w", cityName, err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO users_cities (user_id, city_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, city_id) DO NOTHING
	`, user, cityID)
	if err != nil {
		return NoResult, fmt.Errorf("insert bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NoResult, fmt.Errorf("insert bookmark: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return NoResult, fmt.Errorf("commit bookmark: %w", err)
	}
	if n == 0 {
		return AlreadyBookmarked, nil
	}
	return Added, nil
}

func (s *PostgresStore) List(ctx context.Context, user string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.city
		FROM users_cities uc
		JOIN cities c ON uc.city_id = c.id
		WHERE uc.user_id = $1
		ORDER BY uc.created_at, c.id
	`, user)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return out, nil
}
