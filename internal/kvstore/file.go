// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// FileStore keeps one file per entry in a directory. Writes go to a
// temporary file that is renamed into place.
type FileStore struct {
	dir string

	mu      sync.Mutex
	written map[string]string // last value written per key, to ignore our own events
	watcher *fsnotify.Watcher
}

// NewFileStore creates the directory if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, written: make(map[string]string)}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

func (f *FileStore) Get(ctx context.Context, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(b), nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}

	f.mu.Lock()
	f.written[key] = value
	f.mu.Unlock()

	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.written, key)
	f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Watch calls onChange with the key of every entry modified by another
// process. Events are debounced per key. Watching stops when ctx is done
// or the store is closed.
func (f *FileStore) Watch(ctx context.Context, onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", f.dir, err)
	}

	f.mu.Lock()
	f.watcher = watcher
	f.mu.Unlock()

	go func() {
		timers := make(map[string]*time.Timer)
		for {
			select {
			case <-ctx.Done():
				watcher.Close()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				base := filepath.Base(event.Name)
				if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, fileExt) {
					continue
				}
				key := strings.TrimSuffix(base, fileExt)
				if t, exists := timers[key]; exists {
					t.Stop()
				}
				timers[key] = time.AfterFunc(200*time.Millisecond, func() {
					if f.isOwnWrite(key) {
						return
					}
					slog.Info("storage entry changed on disk", "key", key)
					onChange(key)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("storage watcher error", "error", err)
			}
		}
	}()
	return nil
}

// isOwnWrite reports whether the file for key still holds the last value
// this store wrote.
func (f *FileStore) isOwnWrite(key string) bool {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	last, ok := f.written[key]
	return ok && last == string(b)
}

func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watcher != nil {
		err := f.watcher.Close()
		f.watcher = nil
		return err
	}
	return nil
}
