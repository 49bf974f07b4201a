// Package deck is the image store adapter. It rebuilds the ordered image list
// from a kv.Store and writes new uploads through to it. The store is injected
// at construction; Load is a snapshot, so callers reload explicitly after
// Ingest or ClearAll.
package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/LISSConsulting/LISSTech.Recall/internal/kv"
)

// ErrDecodeFailure is returned by Ingest when the input is not a decodable
// image. Nothing is written to the store.
var ErrDecodeFailure = errors.New("deck: not a decodable image")

// ImageRecord is one stored image. Name is the store key (normally the
// original file name, e.g. "12.png"); Data is a base64 data URI.
type ImageRecord struct {
	Name string
	Data string
}

// Source is a file handed to Ingest: its original name and a way to read it.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// SourceFromPath returns a Source that reads path and is stored under the
// path's base name.
func SourceFromPath(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// IngestResult is the outcome of ingesting one Source.
type IngestResult struct {
	Name   string
	Record ImageRecord
	Err    error
}

// Adapter loads, ingests and clears images in a kv.Store.
type Adapter struct {
	store    kv.Store
	logger   *slog.Logger
	maxBytes int64 // 0 = unlimited

	mu       sync.Mutex
	uploaded []ImageRecord // images ingested through this adapter since start or ClearAll
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter's logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMaxBytes caps how many bytes Ingest reads from a source. Larger files
// fail with kv.ErrQuotaExceeded before they are fully read. n <= 0 removes
// the cap. The default is kv.DefaultQuota.
func WithMaxBytes(n int) Option {
	return func(a *Adapter) {
		a.maxBytes = int64(max(n, 0))
	}
}

// New returns an Adapter over store.
func New(store kv.Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:    store,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBytes: kv.DefaultQuota,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load reads every entry from the store and returns them in display order
// (see Sort). It never fails: keys that disappear mid-scan are skipped and an
// empty store yields an empty, non-nil slice.
func (a *Adapter) Load() []ImageRecord {
	n := a.store.Count()
	records := make([]ImageRecord, 0, n)
	for i := 0; i < n; i++ {
		key, ok := a.store.KeyAt(i)
		if !ok {
			continue
		}
		data, ok := a.store.Get(key)
		if !ok {
			continue
		}
		records = append(records, ImageRecord{Name: key, Data: data})
	}
	Sort(records)
	return records
}

// Payloads returns the Data of each record, in order.
func Payloads(records []ImageRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Data
	}
	return out
}

// Ingest reads src, checks that it decodes as an image, encodes it as a data
// URI and writes it to the store under src.Name. On success the record is also
// appended to the uploaded list.
//
// Errors wrap ErrDecodeFailure for unreadable or non-image input and
// kv.ErrQuotaExceeded when the store is full; in both cases the store is left
// as it was.
func (a *Adapter) Ingest(ctx context.Context, src Source) (ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return ImageRecord{}, err
	}
	if src.Name == "" {
		return ImageRecord{}, fmt.Errorf("deck: ingest: empty file name")
	}
	raw, err := readSource(src, a.maxBytes)
	if errors.Is(err, errTooLarge) {
		return ImageRecord{}, fmt.Errorf("deck: ingest %q: %w: file exceeds %d bytes", src.Name, kv.ErrQuotaExceeded, a.maxBytes)
	}
	if err != nil {
		return ImageRecord{}, fmt.Errorf("deck: ingest %q: %w: %v", src.Name, ErrDecodeFailure, err)
	}
	payload, err := EncodeDataURI(raw)
	if err != nil {
		return ImageRecord{}, fmt.Errorf("deck: ingest %q: %w", src.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return ImageRecord{}, err
	}

	rec := ImageRecord{Name: src.Name, Data: payload}
	if err := a.store.Set(rec.Name, rec.Data); err != nil {
		a.logger.Warn("deck: store write failed", "name", rec.Name, "bytes", len(rec.Data), "error", err)
		return ImageRecord{}, fmt.Errorf("deck: ingest %q: %w", src.Name, err)
	}

	a.mu.Lock()
	a.uploaded = append(a.uploaded, rec)
	a.mu.Unlock()

	a.logger.Info("deck: ingested image", "name", rec.Name, "bytes", len(raw))
	return rec, nil
}

// IngestAll ingests every source concurrently. Completions are unordered with
// respect to each other; the returned results follow the input order.
func (a *Adapter) IngestAll(ctx context.Context, srcs []Source) []IngestResult {
	results := make([]IngestResult, len(srcs))
	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			rec, err := a.Ingest(ctx, src)
			results[i] = IngestResult{Name: src.Name, Record: rec, Err: err}
		}(i, src)
	}
	wg.Wait()
	return results
}

// Uploaded returns a copy of the images ingested since start or the last
// ClearAll, in completion order.
func (a *Adapter) Uploaded() []ImageRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ImageRecord, len(a.uploaded))
	copy(out, a.uploaded)
	return out
}

// ClearAll empties the store and the uploaded list. There is no undo.
func (a *Adapter) ClearAll() error {
	if err := a.store.Clear(); err != nil {
		return fmt.Errorf("deck: clear: %w", err)
	}
	a.mu.Lock()
	a.uploaded = nil
	a.mu.Unlock()
	a.logger.Info("deck: cleared store")
	return nil
}

var errTooLarge = errors.New("source too large")

// readSource reads all of src, or fails with errTooLarge once more than limit
// bytes arrive. limit 0 reads without a cap.
func readSource(src Source, limit int64) ([]byte, error) {
	if src.Open == nil {
		return nil, fmt.Errorf("no reader")
	}
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	if limit <= 0 {
		return io.ReadAll(rc)
	}
	raw, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > limit {
		return nil, errTooLarge
	}
	return raw, nil
}
