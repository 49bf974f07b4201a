// Package notify sends fire-and-forget HTTP notifications when a recall pass
// completes. The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"net/http"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Recall/internal/recall"
)

// Notifier posts plain-text HTTP notifications for completed passes.
type Notifier struct {
	url             string
	title           string
	rememberedLabel string
	forgotLabel     string
	onComplete      bool
	client          *http.Client
}

// New creates a Notifier. title is used as the X-Title header; if empty,
// "Recall" is used instead. The labels are used in the message body.
func New(notifURL, title, rememberedLabel, forgotLabel string, onComplete bool) *Notifier {
	if title == "" {
		title = "Recall"
	}
	return &Notifier{
		url:             notifURL,
		title:           title,
		rememberedLabel: rememberedLabel,
		forgotLabel:     forgotLabel,
		onComplete:      onComplete,
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

// Hook is a recall.WithOnComplete-compatible function. It fires an
// asynchronous POST when completion notifications are enabled.
func (n *Notifier) Hook(s recall.Summary) {
	if !n.onComplete || n.url == "" {
		return
	}
	go n.post(recall.FormatSummary(s, n.rememberedLabel, n.forgotLabel))
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt the game.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
