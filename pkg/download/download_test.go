package download

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyHandler fails with `status` for the first `failures` requests, and
// then serves `body`.
type flakyHandler struct {
	failures int32
	status   int
	body     string
	requests int32
}

func (h *flakyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	count := atomic.AddInt32(&h.requests, 1)
	if count <= h.failures {
		http.Error(w, http.StatusText(h.status), h.status)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(h.body))
}

// recordingWait returns a wait function which records delays instead of sleeping.
func recordingWait(delays *[]time.Duration) Option {
	return WithWaitFunc(func(ctx context.Context, delay time.Duration) error {
		*delays = append(*delays, delay)
		return nil
	})
}

func newGet(t *testing.T, url string) *http.Request {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return req
}

func TestBackoff(t *testing.T) {
	client := NewClient()
	assert.Equal(t, time.Duration(0), client.Backoff(0))
	assert.Equal(t, 2*time.Second, client.Backoff(1))
	assert.Equal(t, 4*time.Second, client.Backoff(2))
	assert.Equal(t, 8*time.Second, client.Backoff(3))

	client = NewClient(RetryDelay(time.Second), BackoffFactor(3))
	assert.Equal(t, 9*time.Second, client.Backoff(3))
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	handler := &flakyHandler{failures: 3, status: http.StatusServiceUnavailable, body: "hello"}
	server := httptest.NewServer(handler)
	defer server.Close()

	delays := []time.Duration{}
	attempts := []uint{}
	client := NewClient(recordingWait(&delays))

	resp, err := client.Do(newGet(t, server.URL), func(attempt uint, delay time.Duration, reason string) {
		attempts = append(attempts, attempt)
		assert.Contains(t, reason, "503")
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := ioutil.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, int32(4), atomic.LoadInt32(&handler.requests))
	assert.Equal(t, []uint{1, 2, 3}, attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, delays)
}

func TestDoReturnsLastResponseWhenRetriesExhausted(t *testing.T) {
	handler := &flakyHandler{failures: 100, status: http.StatusBadGateway}
	server := httptest.NewServer(handler)
	defer server.Close()

	delays := []time.Duration{}
	client := NewClient(recordingWait(&delays))

	resp, err := client.Do(newGet(t, server.URL), nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(4), atomic.LoadInt32(&handler.requests))
	assert.Len(t, delays, 3)
}

func TestDoRetriesTooManyRequests(t *testing.T) {
	handler := &flakyHandler{failures: 1, status: http.StatusTooManyRequests, body: "ok"}
	server := httptest.NewServer(handler)
	defer server.Close()

	delays := []time.Duration{}
	client := NewClient(recordingWait(&delays))

	resp, err := client.Do(newGet(t, server.URL), nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&handler.requests))
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusNotImplemented} {
		handler := &flakyHandler{failures: 100, status: status}
		server := httptest.NewServer(handler)

		delays := []time.Duration{}
		client := NewClient(recordingWait(&delays))

		resp, err := client.Do(newGet(t, server.URL), nil)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, status, resp.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&handler.requests))
		assert.Empty(t, delays)
		server.Close()
	}
}

func TestDoOnceDoesNotRetry(t *testing.T) {
	handler := &flakyHandler{failures: 1, status: http.StatusServiceUnavailable}
	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient(WithWaitFunc(func(context.Context, time.Duration) error {
		t.Fatal("DoOnce should not wait")
		return nil
	}))

	resp, err := client.DoOnce(newGet(t, server.URL))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&handler.requests))
}

func TestDoStopsWhenWaitIsCancelled(t *testing.T) {
	handler := &flakyHandler{failures: 100, status: http.StatusServiceUnavailable}
	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := NewClient(WithWaitFunc(func(ctx context.Context, delay time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	req := newGet(t, server.URL).WithContext(ctx)
	_, err := client.Do(req, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), atomic.LoadInt32(&handler.requests))
}

func TestSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, context.Canceled, sleep(ctx, time.Hour))
	assert.NoError(t, sleep(ctx, 0))
}

func TestGetFile(t *testing.T) {
	handler := &flakyHandler{body: "file contents"}
	server := httptest.NewServer(handler)
	defer server.Close()

	filename := filepath.Join(t.TempDir(), "out.txt")
	var last Progress

	client := NewClient()
	written, err := client.GetFile(context.Background(), server.URL, filename, func(progress *Progress) {
		last = *progress
	})
	require.NoError(t, err)

	assert.Equal(t, int64(len("file contents")), written)
	data, err := ioutil.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "file contents", string(data))

	_, err = os.Stat(filename + partialSuffix)
	assert.True(t, os.IsNotExist(err))

	assert.True(t, last.Done)
	assert.Nil(t, last.Err)
	assert.Equal(t, filename, last.File)
	assert.Equal(t, "text/plain", last.MimeType)
	assert.Equal(t, float64(100), last.PercentComplete)
}

func TestGetFileSendsUserAgent(t *testing.T) {
	userAgent := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(UserAgent("imgurdl-test"))
	_, err := client.GetFile(context.Background(), server.URL, filepath.Join(t.TempDir(), "out.txt"), nil)
	require.NoError(t, err)
	assert.Equal(t, "imgurdl-test", userAgent)
}

func TestGetFileStatusError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	filename := filepath.Join(t.TempDir(), "out.txt")

	client := NewClient()
	_, err := client.GetFile(context.Background(), server.URL, filename, nil)
	assert.True(t, IsStatusError(err, http.StatusNotFound))
	assert.False(t, IsStatusError(err, http.StatusInternalServerError))

	_, err = os.Stat(filename)
	assert.True(t, os.IsNotExist(err))
}

type failingReader struct {
	data string
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("connection reset")
}

func TestSaveBodyRemovesPartialFileOnError(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.png")
	resp := &http.Response{
		StatusCode:    http.StatusOK,
		Header:        http.Header{"Content-Type": []string{"image/png"}},
		ContentLength: 100,
		Body:          io.NopCloser(&failingReader{data: "partial"}),
		Request:       newGet(t, "https://i.imgur.com/abc.png"),
	}

	var last Progress
	client := NewClient()
	_, err := client.SaveBody(resp, filename, func(progress *Progress) { last = *progress })
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection reset"))

	_, statErr := os.Stat(filename)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filename + partialSuffix)
	assert.True(t, os.IsNotExist(statErr))

	assert.True(t, last.Done)
	assert.Equal(t, err, last.Err)
	assert.Equal(t, "https://i.imgur.com/abc.png", last.URL)
}
