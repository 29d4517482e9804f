package scrape

import (
	"net/http/cookiejar"
	"time"

	"agora-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib/scrape")

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

type SessionOptions struct {
	UserAgent string
	// per-request timeout, bounds the wait for page readiness rather
	// than waiting on full network idle
	Timeout time.Duration
}

// SessionManager owns the lifetime of one long-lived HTTP session reused
// across many fetches. The session handle is single-owner for the duration
// of a batch; Restart discards it and builds a fresh one.
type SessionManager struct {
	opts     SessionOptions
	http     *resty.Client
	restarts int
}

func NewSessionManager(opts SessionOptions) *SessionManager {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 25
	}
	return &SessionManager{opts: opts}
}

func (m *SessionManager) newClient() *resty.Client {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", m.opts.UserAgent)
	client.SetTimeout(m.opts.Timeout)

	telemetry.InstrumentResty(client, "lib/scrape/http")
	return client
}

// Acquire returns the active session handle, creating it on first use.
func (m *SessionManager) Acquire() *resty.Client {
	if m.http == nil {
		m.http = m.newClient()
	}
	return m.http
}

// Release drops the session handle. Safe to call more than once.
func (m *SessionManager) Release() {
	m.http = nil
}

// Restart tears down the current session and recreates it. Any in-flight
// request on the old session is abandoned; the caller retries the
// in-progress item against the new session.
func (m *SessionManager) Restart() {
	m.http = m.newClient()
	m.restarts++
}

// Restarts reports how many times the session has been rebuilt.
func (m *SessionManager) Restarts() int {
	return m.restarts
}
