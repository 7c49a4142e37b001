package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"copystudio-api/pkg/logger"
)

// Watch 监听目录文件变更并热加载，直到 ctx 取消。
// 监听的是父目录，编辑器的 rename 写入也能被捕获。
func Watch(ctx context.Context, c *Catalog, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	src := FileSource{Path: abs}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := c.Reload(ctx, src); err != nil {
				logger.Warn(ctx, "catalog reload failed, keeping previous snapshot",
					"path", abs,
					"error", err.Error(),
				)
				continue
			}
			logger.Info(ctx, "catalog reloaded", "path", abs, "templates", c.Len())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error(ctx, "catalog watcher error", err)
		}
	}
}
