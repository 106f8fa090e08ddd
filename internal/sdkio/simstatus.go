package sdkio

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// SimStatusProbe checks whether the simulator is running by asking its
// local HTTP status endpoint. Any transport error is treated as "not
// running" — the caller never learns why, only that it should return
// false from startup.
type SimStatusProbe struct {
	Client *http.Client
	URL    string
}

// NewSimStatusProbe returns a probe with a short, bounded timeout — this
// call must never hang the caller's startup sequence.
func NewSimStatusProbe() *SimStatusProbe {
	return &SimStatusProbe{
		Client: &http.Client{Timeout: 2 * time.Second},
		URL:    SimStatusURL,
	}
}

// Running reports whether the simulator's status endpoint says it is
// live. The response body must contain the substring "running:1".
func (p *SimStatusProbe) Running(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return false
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return false
	}
	return strings.Contains(string(body), "running:1")
}
