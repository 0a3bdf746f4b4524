package logger

import (
	"io"

	"bazaar/internal/platform/config/raw"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions enables a size-rotated log file next to the primary writer
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func fileFromEnv(rc raw.Conf, path string) FileOptions {
	return FileOptions{
		Path:       path,
		MaxSizeMB:  rc.GetInt("MAX_MB", 64),
		MaxBackups: rc.GetInt("BACKUPS", 7),
		MaxAgeDays: rc.GetInt("MAX_AGE_DAYS", 7),
		Compress:   rc.GetBool("COMPRESS", true),
	}
}

// writer returns nil when no path is configured
func (f FileOptions) writer() io.Writer {
	if f.Path == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   f.Path,
		MaxSize:    f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAgeDays,
		Compress:   f.Compress,
	}
}
