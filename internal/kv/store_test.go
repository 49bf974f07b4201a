package kv_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/LISSConsulting/LISSTech.Recall/internal/kv"
)

// Compile-time checks: every backend implements Store.
var (
	_ kv.Store = (*kv.Memory)(nil)
	_ kv.Store = (*kv.JSONL)(nil)
	_ kv.Store = (*kv.SQLite)(nil)
)

type opener func(t *testing.T, opts ...kv.Option) kv.Store

func backends() map[string]opener {
	return map[string]opener{
		"memory": func(t *testing.T, opts ...kv.Option) kv.Store {
			return kv.NewMemory(opts...)
		},
		"jsonl": func(t *testing.T, opts ...kv.Option) kv.Store {
			t.Helper()
			s, err := kv.OpenJSONL(t.TempDir(), opts...)
			if err != nil {
				t.Fatalf("OpenJSONL: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T, opts ...kv.Option) kv.Store {
			t.Helper()
			s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "recall.db"), opts...)
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			return s
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, open opener)) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			fn(t, open)
		})
	}
}

func TestStore_SetGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open opener) {
		s := open(t)
		defer func() { _ = s.Close() }()

		if err := s.Set("1.png", "data:image/png;base64,AAA"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, ok := s.Get("1.png")
		if !ok {
			t.Fatal("Get: expected key to be present")
		}
		if got != "data:image/png;base64,AAA" {
			t.Errorf("Get: got %q", got)
		}
		if _, ok := s.Get("missing"); ok {
			t.Error("Get(missing): expected absent")
		}
	})
}

func TestStore_InsertionOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open opener) {
		s := open(t)
		defer func() { _ = s.Close() }()

		for _, k := range []string{"b", "a", "c"} {
			if err := s.Set(k, "v-"+k); err != nil {
				t.Fatal(err)
			}
		}
		// Overwrite keeps position.
		if err := s.Set("b", "v-b2"); err != nil {
			t.Fatal(err)
		}

		if s.Count() != 3 {
			t.Fatalf("Count: got %d, want 3", s.Count())
		}
		want := []string{"b", "a", "c"}
		for i, w := range want {
			k, ok := s.KeyAt(i)
			if !ok || k != w {
				t.Errorf("KeyAt(%d): got %q/%v, want %q", i, k, ok, w)
			}
		}
		if _, ok := s.KeyAt(3); ok {
			t.Error("KeyAt(3): expected out of range")
		}
		if _, ok := s.KeyAt(-1); ok {
			t.Error("KeyAt(-1): expected out of range")
		}
		if v, _ := s.Get("b"); v != "v-b2" {
			t.Errorf("Get(b) after overwrite: got %q", v)
		}
	})
}

func TestStore_Clear(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open opener) {
		s := open(t)
		defer func() { _ = s.Close() }()

		_ = s.Set("1.png", "x")
		_ = s.Set("2.png", "y")
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if s.Count() != 0 {
			t.Errorf("Count after Clear: got %d", s.Count())
		}
		if _, ok := s.Get("1.png"); ok {
			t.Error("Get after Clear: expected absent")
		}
		// Store stays usable.
		if err := s.Set("3.png", "z"); err != nil {
			t.Fatalf("Set after Clear: %v", err)
		}
		if k, _ := s.KeyAt(0); k != "3.png" {
			t.Errorf("KeyAt(0) after Clear+Set: got %q", k)
		}
	})
}

func TestStore_Quota(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open opener) {
		s := open(t, kv.WithQuota(20))
		defer func() { _ = s.Close() }()

		if err := s.Set("a", strings.Repeat("x", 10)); err != nil {
			t.Fatalf("first Set: %v", err)
		}
		err := s.Set("b", strings.Repeat("y", 10))
		if !errors.Is(err, kv.ErrQuotaExceeded) {
			t.Fatalf("expected ErrQuotaExceeded, got %v", err)
		}
		// The rejected write must not disturb existing entries.
		if s.Count() != 1 {
			t.Errorf("Count: got %d, want 1", s.Count())
		}
		if v, _ := s.Get("a"); v != strings.Repeat("x", 10) {
			t.Errorf("Get(a): got %q", v)
		}
		// Shrinking an existing entry always fits.
		if err := s.Set("a", "x"); err != nil {
			t.Errorf("shrinking overwrite: %v", err)
		}
		// And frees room for a new one.
		if err := s.Set("b", strings.Repeat("y", 10)); err != nil {
			t.Errorf("Set after shrink: %v", err)
		}
	})
}

func TestStore_UnlimitedQuota(t *testing.T) {
	s := kv.NewMemory(kv.WithQuota(0))
	big := strings.Repeat("x", kv.DefaultQuota+1)
	if err := s.Set("big", big); err != nil {
		t.Fatalf("Set with quota 0: %v", err)
	}
}

func TestStore_ConcurrentSet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open opener) {
		s := open(t)
		defer func() { _ = s.Close() }()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = s.Set(fmt.Sprintf("%d.png", i), fmt.Sprintf("v%d", i))
			}(i)
		}
		wg.Wait()
		if s.Count() != 20 {
			t.Fatalf("Count: got %d, want 20", s.Count())
		}
		for i := 0; i < 20; i++ {
			if v, ok := s.Get(fmt.Sprintf("%d.png", i)); !ok || v != fmt.Sprintf("v%d", i) {
				t.Errorf("Get(%d.png): got %q/%v", i, v, ok)
			}
		}
	})
}

func TestStore_SetAfterClose(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open opener) {
		s := open(t)
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
		if err := s.Set("k", "v"); !errors.Is(err, kv.ErrClosed) {
			t.Errorf("Set after Close: got %v, want ErrClosed", err)
		}
		if err := s.Clear(); !errors.Is(err, kv.ErrClosed) {
			t.Errorf("Clear after Close: got %v, want ErrClosed", err)
		}
	})
}

func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		path    func(t *testing.T) string
		wantErr bool
	}{
		{kv.BackendMemory, func(t *testing.T) string { return "" }, false},
		{kv.BackendJSONL, func(t *testing.T) string { return t.TempDir() }, false},
		{kv.BackendSQLite, func(t *testing.T) string { return filepath.Join(t.TempDir(), "s.db") }, false},
		{kv.BackendSQLite, func(t *testing.T) string { return "" }, true},
		{"redis", func(t *testing.T) string { return "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := kv.Open(tt.backend, tt.path(t))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			_ = s.Close()
		})
	}
}

func TestStore_RejectsInvalidUTF8(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open opener) {
		s := open(t)
		defer func() { _ = s.Close() }()

		for _, tc := range []struct{ key, value string }{
			{"a\xff.png", "data:image/png;base64,AAA"},
			{"a\xfe.png", "data:image/png;base64,BBB"},
			{"ok.png", "bad\xffvalue"},
		} {
			if err := s.Set(tc.key, tc.value); !errors.Is(err, kv.ErrInvalidUTF8) {
				t.Errorf("Set(%q, %q): expected ErrInvalidUTF8, got %v", tc.key, tc.value, err)
			}
		}
		if s.Count() != 0 {
			t.Errorf("Count: got %d, want 0 after rejected writes", s.Count())
		}
		if err := s.Set("äpfel 1.png", "data:image/png;base64,AAA"); err != nil {
			t.Errorf("valid UTF-8 key rejected: %v", err)
		}
	})
}
