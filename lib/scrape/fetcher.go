package scrape

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	random "github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func attrEvent(attempt int, status Status) trace.EventOption {
	return trace.WithAttributes(
		attribute.Int("attempt", attempt),
		attribute.String("status", status.String()),
	)
}

type Status int

const (
	StatusOK Status = iota
	StatusTimeout
	StatusNetworkError
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusNetworkError:
		return "network_error"
	case StatusFatal:
		return "fatal"
	}
	return "unknown"
}

// FetchResult is consumed once by the extractor and never persisted.
type FetchResult struct {
	ItemID    string
	Payload   []byte
	Status    Status
	FetchedAt time.Time
}

type FetcherOptions struct {
	// retries beyond the first attempt, per item
	Retries int
	// wait between ordinary retry attempts
	RetryWait time.Duration
	Clock     Clock
}

// Fetcher turns a target URL into raw page content or a typed failure.
// A failure classified fatal-to-session triggers exactly one session
// restart per item, after which the item is retried against the new
// session. A single item exhausting its attempts never aborts the batch.
type Fetcher struct {
	sessions *SessionManager
	opts     FetcherOptions
}

func NewFetcher(sessions *SessionManager, opts FetcherOptions) *Fetcher {
	if opts.Retries == 0 {
		opts.Retries = 2
	}
	if opts.RetryWait == 0 {
		opts.RetryWait = time.Second * 2
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	return &Fetcher{sessions: sessions, opts: opts}
}

func classify(err error) Status {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return StatusTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		strings.Contains(err.Error(), "connection reset") {
		return StatusFatal
	}
	return StatusNetworkError
}

// restartWait returns the jittered 3-5s pause applied after a session
// restart, longer than the ordinary retry wait to let transient network
// conditions clear.
func restartWait() time.Duration {
	seconds, err := random.IntRange(3, 6)
	if err != nil {
		seconds = 4
	}
	return time.Duration(seconds) * time.Second
}

func (f *Fetcher) Fetch(ctx context.Context, itemID, url string) FetchResult {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("item", itemID),
		attribute.String("url", url),
	)

	attempts := f.opts.Retries + 1
	restarted := false
	last := FetchResult{ItemID: itemID, Status: StatusNetworkError, FetchedAt: f.opts.Clock.Now()}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			// backoff grows with each attempt
			wait := f.opts.RetryWait * time.Duration(attempt)
			if restarted {
				wait = restartWait()
			}
			if err := f.opts.Clock.Sleep(ctx, wait); err != nil {
				span.SetStatus(codes.Error, "cancelled between attempts")
				last.Status = StatusNetworkError
				return last
			}
		}

		client := f.sessions.Acquire()
		res, err := client.R().SetContext(ctx).Get(url)
		last.FetchedAt = f.opts.Clock.Now()

		if err != nil {
			status := classify(err)
			span.RecordError(err)
			span.AddEvent("attempt failed", attrEvent(attempt, status))
			last.Status = status
			last.Payload = nil

			if status == StatusFatal && !restarted {
				f.sessions.Restart()
				restarted = true
				span.AddEvent("session restarted")
			}
			continue
		}

		if res.StatusCode() < 200 || res.StatusCode() > 299 {
			span.AddEvent("attempt failed", attrEvent(attempt, StatusNetworkError))
			last.Status = StatusNetworkError
			last.Payload = nil
			continue
		}

		last.Status = StatusOK
		last.Payload = res.Body()
		span.SetStatus(codes.Ok, "fetched")
		return last
	}

	span.SetStatus(codes.Error, "attempts exhausted: "+last.Status.String())
	return last
}
