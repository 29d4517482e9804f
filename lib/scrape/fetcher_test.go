package scrape

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock records sleeps instead of performing them.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func newTestFetcher(clock *fakeClock) (*Fetcher, *SessionManager) {
	sessions := NewSessionManager(SessionOptions{Timeout: time.Second * 5})
	fetcher := NewFetcher(sessions, FetcherOptions{
		Retries:   2,
		RetryWait: time.Second * 2,
		Clock:     clock,
	})
	return fetcher, sessions
}

func TestFetchOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>event page</html>"))
	}))
	defer server.Close()

	clock := &fakeClock{now: time.Date(2025, time.November, 15, 12, 0, 0, 0, time.UTC)}
	fetcher, sessions := newTestFetcher(clock)

	res := fetcher.Fetch(context.Background(), "event-1", server.URL)
	require.Equal(t, StatusOK, res.Status)
	require.Equal(t, []byte("<html>event page</html>"), res.Payload)
	require.Equal(t, "event-1", res.ItemID)
	require.Zero(t, sessions.Restarts())
	require.Empty(t, clock.sleeps)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	clock := &fakeClock{now: time.Now()}
	fetcher, sessions := newTestFetcher(clock)

	res := fetcher.Fetch(context.Background(), "event-1", server.URL)
	require.Equal(t, StatusOK, res.Status)
	require.Equal(t, []byte("recovered"), res.Payload)
	require.Equal(t, 3, hits)
	// ordinary retries back off with growing waits, no restart
	require.Equal(t, []time.Duration{time.Second * 2, time.Second * 4}, clock.sleeps)
	require.Zero(t, sessions.Restarts())
}

func TestFetchExhaustsAttempts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	clock := &fakeClock{now: time.Now()}
	fetcher, sessions := newTestFetcher(clock)

	res := fetcher.Fetch(context.Background(), "event-1", server.URL)
	require.Equal(t, StatusNetworkError, res.Status)
	require.Nil(t, res.Payload)
	require.Len(t, clock.sleeps, 2)
	require.Zero(t, sessions.Restarts())
}

func TestFetchFatalRestartsSessionOnce(t *testing.T) {
	// a closed listener yields connection refused on every attempt
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	clock := &fakeClock{now: time.Now()}
	fetcher, sessions := newTestFetcher(clock)

	res := fetcher.Fetch(context.Background(), "event-1", url)
	require.Equal(t, StatusFatal, res.Status)
	require.Nil(t, res.Payload)
	// three attempts in total, but the session is rebuilt exactly once
	require.Equal(t, 1, sessions.Restarts())
	require.Len(t, clock.sleeps, 2)
	// post-restart waits are jittered into the 3-5s range
	for _, d := range clock.sleeps {
		require.GreaterOrEqual(t, d, time.Second*3)
		require.LessOrEqual(t, d, time.Second*5)
	}
}

func TestFetchCancelledBetweenAttempts(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())

	clock := &fakeClock{now: time.Now()}
	sessions := NewSessionManager(SessionOptions{Timeout: time.Second * 5})
	fetcher := NewFetcher(sessions, FetcherOptions{Clock: clock})

	// cancel after the first response lands
	cancel()
	res := fetcher.Fetch(ctx, "event-1", server.URL)
	require.NotEqual(t, StatusOK, res.Status)
	require.LessOrEqual(t, hits, 1)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Status
	}{
		{"deadline", context.DeadlineExceeded, StatusTimeout},
		{"net timeout", timeoutErr{}, StatusTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "example.invalid"}, StatusFatal},
		{"conn reset", syscall.ECONNRESET, StatusFatal},
		{"conn refused", syscall.ECONNREFUSED, StatusFatal},
		{"reset in message", errors.New("read tcp: connection reset by peer"), StatusFatal},
		{"other", errors.New("unexpected EOF"), StatusNetworkError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, classify(c.err))
		})
	}
}
