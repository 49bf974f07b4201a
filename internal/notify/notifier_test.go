package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.Recall/internal/recall"
)

// captureServer starts an httptest.Server that records incoming requests.
// It returns the server and a function to collect all captured requests.
func captureServer(t *testing.T) (*httptest.Server, func() []capturedReq) {
	t.Helper()
	var mu sync.Mutex
	var reqs []capturedReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, capturedReq{
			method:      r.Method,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("X-Title"),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedReq {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedReq, len(reqs))
		copy(out, reqs)
		return out
	}
}

type capturedReq struct {
	method      string
	body        string
	contentType string
	title       string
}

// waitForRequests polls until count requests are captured or the deadline is reached.
func waitForRequests(t *testing.T, collect func() []capturedReq, count int) []capturedReq {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := collect(); len(got) >= count {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d request(s)", count)
	return nil
}

func TestHook_OnComplete(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "Flags", "remembered", "forgot", true)
	n.Hook(recall.Summary{Remembered: 2, Forgotten: 1, Total: 3})

	reqs := waitForRequests(t, collect, 1)
	r := reqs[0]
	if r.method != http.MethodPost {
		t.Errorf("method = %q, want POST", r.method)
	}
	for _, want := range []string{"remembered 2", "forgot 1", "3 cards"} {
		if !strings.Contains(r.body, want) {
			t.Errorf("body %q should contain %q", r.body, want)
		}
	}
	if r.contentType != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", r.contentType)
	}
	if r.title != "Flags" {
		t.Errorf("X-Title = %q, want Flags", r.title)
	}
}

func TestHook_DefaultTitle(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", "r", "f", true)
	n.Hook(recall.Summary{Total: 1})

	reqs := waitForRequests(t, collect, 1)
	if reqs[0].title != "Recall" {
		t.Errorf("X-Title = %q, want Recall", reqs[0].title)
	}
}

func TestHook_Disabled(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "x", "r", "f", false)
	n.Hook(recall.Summary{Total: 1})

	time.Sleep(100 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests when on_complete is off, got %d", len(got))
	}
}

func TestHook_NoURL(t *testing.T) {
	n := New("", "x", "r", "f", true)
	// Must not panic or block.
	n.Hook(recall.Summary{Total: 1})
}

func TestHook_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	n := New(url, "x", "r", "f", true)
	// Fire-and-forget: a dead endpoint must not panic the caller.
	n.Hook(recall.Summary{Total: 1})
	time.Sleep(50 * time.Millisecond)
}
