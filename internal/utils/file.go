package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic 一時ファイルに書いてから rename で置き換える
// 途中で失敗しても既存のファイルは壊れない
func WriteFileAtomic(path string, payload []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := replaceFile(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}

// WriteJSONAtomic インデント付きJSONとして保存
func WriteJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return WriteFileAtomic(path, append(data, '\n'), 0o644)
}

func replaceFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	// Windowsでは既存ファイルへの rename が失敗するので退避してから入れ替える
	if _, statErr := os.Stat(dst); statErr != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	backup := dst + ".bak.tmp"
	_ = os.Remove(backup)
	if backupErr := os.Rename(dst, backup); backupErr != nil {
		return fmt.Errorf("failed to backup existing file: %w (original rename err: %v)", backupErr, err)
	}
	if renameErr := os.Rename(src, dst); renameErr != nil {
		_ = os.Rename(backup, dst)
		return fmt.Errorf("failed to rename temp file after backup: %w", renameErr)
	}
	_ = os.Remove(backup)
	return nil
}
