// Package kv provides the synchronous string key/value store that holds
// uploaded images between runs. One store is opened per recall invocation in
// cmd/recall and injected into the deck adapter; nothing in the module reaches
// for it as a global.
//
// Reads never fail: Count, KeyAt and Get answer from state loaded at open
// time, matching the contract of a browser-local store. Writes return errors
// so quota exhaustion reaches the uploader.
package kv

import (
	"errors"
	"io"
	"log/slog"
)

// DefaultQuota is the default capacity in bytes (keys plus values), matching
// the usual browser localStorage ceiling.
const DefaultQuota = 5 << 20

var (
	// ErrQuotaExceeded is returned by Set when the write would push the store
	// past its capacity. The store is left unchanged.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")

	// ErrClosed is returned by writes on a closed store.
	ErrClosed = errors.New("kv: store closed")

	// ErrInvalidUTF8 is returned by Set when the key or value is not valid
	// UTF-8. Every backend rejects such writes so none of them can silently
	// rewrite a key.
	ErrInvalidUTF8 = errors.New("kv: invalid UTF-8")
)

// Store is an ordered string key/value store. Keys are enumerated by position
// in first-insertion order; overwriting a key keeps its position.
type Store interface {
	Count() int
	KeyAt(i int) (string, bool)
	Get(key string) (string, bool)
	Set(key, value string) error
	Clear() error
	io.Closer
}

// Option configures a Store implementation.
type Option func(*options)

type options struct {
	quota  int
	logger *slog.Logger
}

func defaultOptions() options {
	return options{
		quota:  DefaultQuota,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithQuota sets the capacity in bytes. 0 means unlimited.
func WithQuota(bytes int) Option {
	return func(o *options) {
		if bytes >= 0 {
			o.quota = bytes
		}
	}
}

// WithLogger sets the logger used for recoverable problems such as skipped
// malformed records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
