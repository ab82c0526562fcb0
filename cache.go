package vraseniors

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/CLAYYO/VRASeniors/content"
)

const reloadDebounce = 250 * time.Millisecond

// ContentCache holds the repository built from the content document and
// swaps it whenever the document changes on disk. Readers always see a
// complete repository.
type ContentCache struct {
	mu     sync.RWMutex
	repo   *content.Repository
	loaded time.Time
	path   string
	logger *zap.Logger
}

// NewContentCache loads path and returns a cache over it.
func NewContentCache(path string, logger *zap.Logger) (*ContentCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &ContentCache{path: path, logger: logger}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Repository returns the current repository.
func (c *ContentCache) Repository() *content.Repository {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repo
}

// Items returns a copy of the current items.
func (c *ContentCache) Items() []content.ContentItem {
	return c.Repository().All()
}

// Loaded reports when the current repository was read.
func (c *ContentCache) Loaded() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Reload re-reads the document. On error the previous repository stays in place.
func (c *ContentCache) Reload() error {
	items, err := content.Load(c.path)
	if err != nil {
		return err
	}
	repo := content.NewRepository(items)
	c.mu.Lock()
	c.repo = repo
	c.loaded = time.Now()
	c.mu.Unlock()
	return nil
}

// Watch reloads the document when it is written, created or renamed into
// place, until ctx is cancelled. The directory is watched rather than the
// file so editors that replace the file atomically are seen.
func (c *ContentCache) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(c.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	base := filepath.Base(c.path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, c.reloadLogged)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("content watcher error", zap.Error(err))
		}
	}
}

func (c *ContentCache) reloadLogged() {
	if err := c.Reload(); err != nil {
		c.logger.Error("reload content", zap.String("path", c.path), zap.Error(err))
		return
	}
	c.logger.Info("content reloaded", zap.String("path", c.path), zap.Int("items", c.Repository().Len()))
}
