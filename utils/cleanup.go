package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"movein-backend/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	CleanupSchedule = "0 1 * * *"

	maxRetries = 3
)

var retryDelay = 2 * time.Minute

// CleanupExpiredFiles removes regular files in dir older than ttl and returns how many went.
func CleanupExpiredFiles(dir string, ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("error reading export directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			config.Logger.Warn("Could not stat export file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		if time.Since(info.ModTime()) <= ttl {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("error deleting expired file %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// RunScheduledCleanup starts a daily 1 AM job deleting expired exports. The caller stops the returned scheduler.
func RunScheduledCleanup(dir string, ttl time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(CleanupSchedule, func() {
		for attempt := 1; attempt <= maxRetries; attempt++ {
			removed, err := CleanupExpiredFiles(dir, ttl)
			if err == nil {
				config.Logger.Info("Scheduled export cleanup finished", zap.Int("removed", removed))
				return
			}
			config.Logger.Warn("Scheduled export cleanup failed", zap.Int("attempt", attempt), zap.Error(err))
			if attempt < maxRetries {
				time.Sleep(retryDelay)
			}
		}
		config.Logger.Error("Scheduled export cleanup gave up", zap.Int("attempts", maxRetries), zap.String("dir", dir))
	})
	if err != nil {
		return nil, fmt.Errorf("schedule cleanup: %w", err)
	}

	c.Start()
	return c, nil
}
