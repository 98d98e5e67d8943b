package bookmarks

import (
	"context"
	"sort"

	"citymap_discord_bot/internal/catalog"
)

// AddResult ブックマーク追加の結果
type AddResult int

const (
	// NoResult エラー時に返す値（結果は不明）
	NoResult AddResult = iota
	// CityNotFound カタログに存在しない（書き込みなし）
	CityNotFound
	// Added 新規に追加した
	Added
	// AlreadyBookmarked 既に登録済み（何も変更しない）
	AlreadyBookmarked
)

// OK 追加済みの状態になっているか（新規・既存どちらも true）
func (r AddResult) OK() bool {
	return r == Added || r == AlreadyBookmarked
}

func (r AddResult) String() string {
	switch r {
	case Added:
		return "added"
	case AlreadyBookmarked:
		return "already_bookmarked"
	case CityNotFound:
		return "city_not_found"
	default:
		return "none"
	}
}

// Store ユーザーごとの都市ブックマーク
// (user, city) の組は常に一意。削除操作はない
type Store interface {
	Add(ctx context.Context, user, cityName string) (AddResult, error)
	List(ctx context.Context, user string) ([]string, error)
}

// joinCatalog カタログに存在する名前だけを残す（cities との JOIN 相当）
func joinCatalog(ctx context.Context, cat catalog.Catalog, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		_, ok, err := cat.Lookup(ctx, name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, name)
		}
	}
	return out, nil
}

func sortedCopy(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}
