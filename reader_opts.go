package wpress

import "log/slog"

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the logger used by the Reader.
// By default, nothing is logged.
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithProgress sets a callback that receives indexing and extraction
// progress.
func WithProgress(fn ProgressFunc) ReaderOption {
	return func(r *Reader) {
		r.progress = fn
	}
}
