package kv_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/LISSConsulting/LISSTech.Recall/internal/kv"
)

func TestOpenJSONL_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub", "store")
	s, err := kv.OpenJSONL(dir)
	if err != nil {
		t.Fatalf("OpenJSONL on non-existent dir: %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, err := os.Stat(filepath.Join(dir, kv.JSONLFileName)); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}

func TestOpenJSONL_DirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notadir")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.OpenJSONL(file); err == nil {
		t.Fatal("expected error when dir argument is an existing file")
	}
}

func TestJSONL_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := kv.OpenJSONL(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Set("10.png", "ten")
	_ = s.Set("2.png", "two")
	_ = s.Set("10.png", "ten-v2")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := kv.OpenJSONL(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()

	if s2.Count() != 2 {
		t.Fatalf("Count after reopen: got %d, want 2", s2.Count())
	}
	if k, _ := s2.KeyAt(0); k != "10.png" {
		t.Errorf("KeyAt(0): got %q, want 10.png", k)
	}
	if v, _ := s2.Get("10.png"); v != "ten-v2" {
		t.Errorf("Get(10.png): got %q, want newest value", v)
	}
}

func TestJSONL_ClearPersists(t *testing.T) {
	dir := t.TempDir()
	s, _ := kv.OpenJSONL(dir)
	_ = s.Set("a", "1")
	_ = s.Clear()
	_ = s.Close()

	s2, err := kv.OpenJSONL(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s2.Close() }()
	if s2.Count() != 0 {
		t.Errorf("Count after reopen of cleared store: got %d", s2.Count())
	}
}

func TestJSONL_CompactsOnOpen(t *testing.T) {
	dir := t.TempDir()
	s, _ := kv.OpenJSONL(dir)
	for i := 0; i < 5; i++ {
		_ = s.Set("k", string(rune('a'+i)))
	}
	_ = s.Close()

	path := filepath.Join(dir, kv.JSONLFileName)
	before, _ := os.ReadFile(path)
	if n := bytes.Count(before, []byte("\n")); n != 5 {
		t.Fatalf("expected 5 lines before compaction, got %d", n)
	}

	s2, err := kv.OpenJSONL(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s2.Close() }()

	after, _ := os.ReadFile(path)
	if n := bytes.Count(after, []byte("\n")); n != 1 {
		t.Errorf("expected 1 line after compaction, got %d", n)
	}
	if v, _ := s2.Get("k"); v != "e" {
		t.Errorf("Get(k) after compaction: got %q, want e", v)
	}
	// Appends after compaction land after the rewritten data.
	if err := s2.Set("j", "z"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s2.Get("j"); v != "z" {
		t.Errorf("Get(j): got %q", v)
	}
	if v, _ := s2.Get("k"); v != "e" {
		t.Errorf("Get(k) after append: got %q", v)
	}
}

func TestJSONL_MalformedLineSkipped(t *testing.T) {
	dir := t.TempDir()
	content := `{"key":"1.png","value":"one"}
{BADLINE
{"key":"2.png","value":"two"}
`
	if err := os.WriteFile(filepath.Join(dir, kv.JSONLFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := kv.OpenJSONL(dir)
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	defer func() { _ = s.Close() }()

	if s.Count() != 2 {
		t.Fatalf("Count: got %d, want 2", s.Count())
	}
	if v, _ := s.Get("2.png"); v != "two" {
		t.Errorf("Get(2.png): got %q", v)
	}
}

func TestJSONL_TornRecordTruncated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, kv.JSONLFileName)
	content := `{"key":"1.png","value":"one"}
{"key":"2.png","val`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := kv.OpenJSONL(dir)
	if err != nil {
		t.Fatalf("OpenJSONL: %v", err)
	}
	defer func() { _ = s.Close() }()

	if s.Count() != 1 {
		t.Fatalf("Count: got %d, want 1", s.Count())
	}
	if err := s.Set("3.png", "three"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("3.png"); v != "three" {
		t.Errorf("Get(3.png) after torn tail: got %q", v)
	}
	if v, _ := s.Get("1.png"); v != "one" {
		t.Errorf("Get(1.png): got %q", v)
	}
}

func TestJSONL_InvalidUTF8KeysNeverReachDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := kv.OpenJSONL(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Set("a\xff.png", "x")
	_ = s.Set("a\xfe.png", "y")
	if err := s.Set("b.png", "z"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = kv.OpenJSONL(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()
	if s.Count() != 1 {
		t.Fatalf("Count after reopen: got %d, want 1", s.Count())
	}
	if k, _ := s.KeyAt(0); k != "b.png" {
		t.Errorf("KeyAt(0): got %q, want b.png", k)
	}
}
