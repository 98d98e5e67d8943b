package catalog

import (
	"context"
	"errors"

	"citymap_discord_bot/internal/geo"
)

// ErrDuplicateCity シードに同名の都市が含まれている
var ErrDuplicateCity = errors.New("duplicate city name")

// Catalog 都市名 → 座標の読み取り専用カタログ
// 一致判定は大文字小文字を区別する完全一致のみ
type Catalog interface {
	// Lookup 見つからない場合は ok=false（エラーではない）
	Lookup(ctx context.Context, name string) (geo.Coordinates, bool, error)
	// List カタログ順の都市名一覧
	List(ctx context.Context) ([]string, error)
}
