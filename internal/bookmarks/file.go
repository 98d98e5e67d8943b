package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"citymap_discord_bot/internal/catalog"
	"citymap_discord_bot/internal/utils"
)

// FileStore JSONファイルに保存するブックマーク
type FileStore struct {
	mu       sync.Mutex
	users    map[string][]string
	filePath string
	catalog  catalog.Catalog
}

type fileFormat struct {
	Users map[string][]string `json:"users"`
}

// NewFileStore ファイルから読み込む（存在しない場合は空で開始）
func NewFileStore(path string, cat catalog.Catalog) (*FileStore, error) {
	fs := &FileStore{
		users:    make(map[string][]string),
		filePath: path,
		catalog:  cat,
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	data, err := os.ReadFile(fs.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read bookmarks: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var format fileFormat
	if err := json.Unmarshal(data, &format); err != nil {
		return fmt.Errorf("parse bookmarks: %w", err)
	}
	for user, cities := range format.Users {
		// 手動編集された重複を除去
		seen := make(map[string]bool, len(cities))
		for _, c := range cities {
			if seen[c] {
				continue
			}
			seen[c] = true
			fs.users[user] = append(fs.users[user], c)
		}
	}
	return nil
}

func (fs *FileStore) saveUnsafe() error {
	return utils.WriteJSONAtomic(fs.filePath, fileFormat{Users: fs.users})
}

func (fs *FileStore) Add(ctx context.Context, user, cityName string) (AddResult, error) {
	_, ok, err := fs.catalog.Lookup(ctx, cityName)
	if err != nil {
		return NoResult, err
	}
	if !ok {
		return CityNotFound, nil
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev := fs.users[user]
	for _, c := range prev {
		if c == cityName {
			return AlreadyBookmarked, nil
		}
	}
	fs.users[user] = append(prev, cityName)
	if err := fs.saveUnsafe(); err != nil {
		// 保存に失敗したらメモリ上も元に戻す
		if len(prev) == 0 {
			delete(fs.users, user)
		} else {
			fs.users[user] = prev
		}
		return NoResult, fmt.Errorf("save bookmarks: %w", err)
	}
	return Added, nil
}

func (fs *FileStore) List(ctx context.Context, user string) ([]string, error) {
	fs.mu.Lock()
	names := make([]string, len(fs.users[user]))
	copy(names, fs.users[user])
	fs.mu.Unlock()

	return joinCatalog(ctx, fs.catalog, names)
}
