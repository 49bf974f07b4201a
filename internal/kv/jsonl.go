package kv

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// syncFile flushes f to disk. Tests swap it to simulate sync failures.
var syncFile = (*os.File).Sync

// JSONLFileName is the name of the op log inside the store directory.
const JSONLFileName = "store.jsonl"

// record is one line of the op log.
type record struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// span is the [start, end) byte range of the newest record for a key,
// excluding the trailing newline.
type span struct {
	start int64
	end   int64
}

// JSONL is a Store backed by an append-only JSONL file. Each Set appends one
// line and syncs; Clear truncates the file. Values are not held in memory:
// Get reads the newest line for a key via file.ReadAt using byte-offset
// bookmarks rebuilt when the file is opened.
//
// Overwritten lines stay in the file until the next open, which compacts the
// log when stale lines outnumber live ones.
type JSONL struct {
	mu     sync.Mutex
	file   *os.File
	dir    string
	path   string
	idx    *index
	spans  map[string]span
	pos    int64 // current write position
	stale  int   // superseded or malformed lines in the file
	logger *slog.Logger
	closed bool
}

// OpenJSONL opens (or creates) the op log in dir. dir is created with
// os.MkdirAll if it does not exist.
func OpenJSONL(dir string, opts ...Option) (*JSONL, error) {
	o := applyOptions(opts)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("kv: mkdir %q: %w", dir, err)
	}
	path := filepath.Join(dir, JSONLFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("kv: open %q: %w", path, err)
	}
	j := &JSONL{
		file:   f,
		dir:    dir,
		path:   path,
		idx:    newIndex(o.quota),
		spans:  make(map[string]span),
		logger: o.logger,
	}
	if err := j.replay(); err != nil {
		_ = f.Close()
		return nil, err
	}
	if j.stale > 0 && j.stale >= len(j.idx.keys) {
		if err := j.compact(); err != nil {
			_ = j.file.Close()
			return nil, err
		}
	}
	return j, nil
}

// replay rebuilds the index from the file. A torn final line (no trailing
// newline) is truncated away.
func (j *JSONL) replay() error {
	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("kv: seek: %w", err)
	}
	r := bufio.NewReader(j.file)
	var offset int64
	for {
		line, err := r.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			if len(line) > 0 {
				j.logger.Warn("kv: truncating torn record", "path", j.path, "offset", offset)
				if terr := j.file.Truncate(offset); terr != nil {
					return fmt.Errorf("kv: truncate torn record: %w", terr)
				}
			}
			break
		}
		if err != nil {
			return fmt.Errorf("kv: read %q: %w", j.path, err)
		}
		n := int64(len(line))
		body := bytes.TrimSuffix(line, []byte("\n"))
		var rec record
		if jsonErr := json.Unmarshal(body, &rec); jsonErr != nil || rec.Key == "" {
			j.logger.Warn("kv: skipping malformed record", "path", j.path, "offset", offset, "error", jsonErr)
			j.stale++
			offset += n
			continue
		}
		if _, ok := j.spans[rec.Key]; ok {
			j.stale++
		}
		j.idx.put(rec.Key, entrySize(rec.Key, rec.Value))
		j.spans[rec.Key] = span{start: offset, end: offset + int64(len(body))}
		offset += n
	}
	j.pos = offset
	return nil
}

// compact rewrites the file with only the live records, in key order, and
// swaps it in with a rename.
func (j *JSONL) compact() error {
	tmp, err := os.CreateTemp(j.dir, ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("kv: create temp log: %w", err)
	}
	spans := make(map[string]span, len(j.idx.keys))
	w := bufio.NewWriter(tmp)
	var offset int64
	for _, key := range j.idx.keys {
		rec, readErr := j.readRecord(j.spans[key])
		if readErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return fmt.Errorf("kv: compact %q: %w", key, readErr)
		}
		data, _ := json.Marshal(rec)
		data = append(data, '\n')
		if _, writeErr := w.Write(data); writeErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return fmt.Errorf("kv: compact write: %w", writeErr)
		}
		spans[key] = span{start: offset, end: offset + int64(len(data)) - 1}
		offset += int64(len(data))
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("kv: compact flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("kv: compact sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("kv: compact close: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("kv: compact rename: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("kv: reopen %q: %w", j.path, err)
	}
	_ = j.file.Close()
	j.file = f
	j.spans = spans
	j.pos = offset
	j.logger.Info("kv: compacted log", "path", j.path, "dropped", j.stale, "entries", len(j.idx.keys))
	j.stale = 0
	return nil
}

func (j *JSONL) readRecord(sp span) (record, error) {
	buf := make([]byte, sp.end-sp.start)
	if _, err := j.file.ReadAt(buf, sp.start); err != nil {
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal(buf, &rec); err != nil {
		return record{}, err
	}
	return rec, nil
}

// Count returns the number of live entries.
func (j *JSONL) Count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.idx.keys)
}

// KeyAt returns the key at position i.
func (j *JSONL) KeyAt(i int) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.idx.keyAt(i)
}

// Get reads the newest value for key from disk. A read failure is logged and
// reported as absent.
func (j *JSONL) Get(key string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	sp, ok := j.spans[key]
	if !ok || j.closed {
		return "", false
	}
	rec, err := j.readRecord(sp)
	if err != nil {
		j.logger.Warn("kv: read record", "key", key, "error", err)
		return "", false
	}
	return rec.Value, true
}

// Set appends a record for key and syncs the file. It is safe to call from
// multiple goroutines; concurrent writers to the same key resolve
// last-write-wins.
func (j *JSONL) Set(key, value string) error {
	if err := checkUTF8(key, value); err != nil {
		return err
	}
	data, err := json.Marshal(record{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("kv: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	if !j.idx.fits(key, value) {
		return fmt.Errorf("kv: set %q: %w", key, ErrQuotaExceeded)
	}
	if _, err := j.file.WriteAt(data, j.pos); err != nil {
		_ = j.file.Truncate(j.pos)
		return fmt.Errorf("kv: write: %w", err)
	}
	if err := syncFile(j.file); err != nil {
		// Drop the unsynced line so a later open cannot replay a write the
		// caller saw fail.
		_ = j.file.Truncate(j.pos)
		return fmt.Errorf("kv: sync: %w", err)
	}
	if _, ok := j.spans[key]; ok {
		j.stale++
	}
	lineLen := int64(len(data))
	j.spans[key] = span{start: j.pos, end: j.pos + lineLen - 1}
	j.pos += lineLen
	j.idx.put(key, entrySize(key, value))
	return nil
}

// Clear truncates the log.
func (j *JSONL) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	if err := j.file.Truncate(0); err != nil {
		return fmt.Errorf("kv: truncate: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("kv: sync: %w", err)
	}
	j.pos = 0
	j.stale = 0
	j.spans = make(map[string]span)
	j.idx.reset()
	return nil
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}
