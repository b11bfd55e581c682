package probe

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Result is one probe outcome. HTTPStatus and ResponseTimeMs are nil when the
// probe failed at the transport level before any response arrived.
type Result struct {
	IsOnline       bool
	HTTPStatus     *int
	ResponseTimeMs *int
}

// Prober issues a single liveness probe against a tool URL. It keeps no
// history and persists nothing.
type Prober struct {
	client   *http.Client
	timeout  time.Duration
	selfHost string
	logger   *zap.Logger
}

// New builds a Prober. siteURL is the directory's own public URL; probing a
// tool hosted on the same hostname short-circuits to online, since a genuine
// self-call from inside the process would only ever hang.
func New(siteURL string, timeout time.Duration, logger *zap.Logger) *Prober {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	selfHost := ""
	if u, err := url.Parse(siteURL); err == nil {
		selfHost = u.Hostname()
	}
	return &Prober{
		// Timeout lives on the per-attempt context, not the client, so the
		// HEAD attempt can never starve the GET fallback.
		client:   &http.Client{},
		timeout:  timeout,
		selfHost: selfHost,
		logger:   logger,
	}
}

// Check probes rawURL. A HEAD is tried first; servers that reject HEAD (or
// fail at the transport level) get one GET retry with a fresh deadline.
func (p *Prober) Check(ctx context.Context, rawURL string) Result {
	target, err := url.Parse(rawURL)
	if err != nil {
		return Result{IsOnline: false}
	}
	if p.selfHost != "" && strings.EqualFold(target.Hostname(), p.selfHost) {
		status := http.StatusOK
		ms := 0
		return Result{IsOnline: true, HTTPStatus: &status, ResponseTimeMs: &ms}
	}

	status, elapsed, headErr := p.attempt(ctx, http.MethodHead, rawURL)
	if headErr != nil || status < 200 || status > 299 {
		getStatus, getElapsed, getErr := p.attempt(ctx, http.MethodGet, rawURL)
		if getErr == nil {
			return classify(getStatus, getElapsed)
		}
		if headErr == nil {
			// HEAD reached the server; the GET fallback failing does not
			// erase that evidence.
			return classify(status, elapsed)
		}
		if p.logger != nil {
			p.logger.Debug("probe failed", zap.String("url", rawURL), zap.Error(getErr))
		}
		return Result{IsOnline: false}
	}
	return classify(status, elapsed)
}

func (p *Prober) attempt(ctx context.Context, method, rawURL string) (int, time.Duration, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, method, rawURL, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", "toolindex-monitor/1.0")

	start := time.Now()
	resp, err := p.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return 0, elapsed, err
	}
	resp.Body.Close()
	return resp.StatusCode, elapsed, nil
}

// classify treats only "resource gone" statuses as offline. Server errors and
// odd redirects still prove the host exists; the probe measures existence,
// not full health.
func classify(status int, elapsed time.Duration) Result {
	online := status != http.StatusNotFound && status != http.StatusGone
	ms := int(elapsed.Milliseconds())
	return Result{IsOnline: online, HTTPStatus: &status, ResponseTimeMs: &ms}
}
