package wpress

import "log/slog"

// writerConfig holds configuration for archive creation.
type writerConfig struct {
	logger   *slog.Logger
	progress ProgressFunc
	maxFiles int
}

// WriterOption configures a Writer.
type WriterOption func(*writerConfig)

// WriteWithLogger sets the logger used by the Writer.
// By default, nothing is logged.
func WriteWithLogger(logger *slog.Logger) WriterOption {
	return func(cfg *writerConfig) {
		cfg.logger = logger
	}
}

// WriteWithProgress sets a callback that receives enumeration and write
// progress.
func WriteWithProgress(fn ProgressFunc) WriterOption {
	return func(cfg *writerConfig) {
		cfg.progress = fn
	}
}

// WriteWithMaxFiles limits the number of files Add may collect.
// Zero or negative means no limit, which is also the default.
func WriteWithMaxFiles(n int) WriterOption {
	return func(cfg *writerConfig) {
		cfg.maxFiles = n
	}
}
