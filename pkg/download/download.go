package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"
)

const partialSuffix = ".part"
const defaultMaxRetries = 3
const defaultRetryDelay = 2 * time.Second
const defaultBackoffFactor = 2.0
const defaultTimeout = 60 * time.Second

// retryStatusCodes are the status codes which will cause a request to be retried.
var retryStatusCodes = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client is a client to use for downloading files.  Note that you must
// construct a Client via `NewClient`.
type Client struct {
	httpClient *http.Client
	// MaxRetries is the number of times a request will be retried after the
	// first attempt.
	MaxRetries uint
	// RetryDelay is how long to wait before the first retry.
	RetryDelay time.Duration
	// BackoffFactor is multiplied into the delay for every subsequent retry.
	BackoffFactor float64
	userAgent     string
	wait          func(ctx context.Context, delay time.Duration) error
}

// Option is an option that can be passed to NewClient.
type Option func(client *Client)

// RetryCallback is called before the client waits to retry a request.
// `attempt` is the 1-based number of the retry about to happen.
type RetryCallback func(attempt uint, delay time.Duration, reason string)

// WithClient is an option for NewClient that allows you to specify
// the http.Client to use to download files.  If unspecified, the Client will
// build its own http.Client with a 60 second timeout.
func WithClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// WithTimeout sets the timeout for a single request.  0 means no timeout.
// This replaces the timeout on whatever http.Client the Client is using, so
// pass it after WithClient.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		httpClient := *client.httpClient
		httpClient.Timeout = timeout
		client.httpClient = &httpClient
	}
}

// MaxRetries is an option for NewClient that sets the maximum number
// of times the Client will retry a request before giving up.  The Client
// will only retry on "recoverable" errors: 429 and 5xx gateway errors from
// the server, or transport errors.
func MaxRetries(retries uint) Option {
	return func(client *Client) {
		client.MaxRetries = retries
	}
}

// RetryDelay sets how long to wait before the first retry.
func RetryDelay(delay time.Duration) Option {
	return func(client *Client) {
		client.RetryDelay = delay
	}
}

// BackoffFactor sets the multiplier applied to the delay between each retry.
func BackoffFactor(factor float64) Option {
	return func(client *Client) {
		client.BackoffFactor = factor
	}
}

// UserAgent sets the User-Agent header sent by GetFile.
func UserAgent(userAgent string) Option {
	return func(client *Client) {
		client.userAgent = userAgent
	}
}

// WithWaitFunc replaces the function used to wait between retries.  This is
// mostly useful in tests, where we don't want to actually sleep.
func WithWaitFunc(wait func(ctx context.Context, delay time.Duration) error) Option {
	return func(client *Client) {
		client.wait = wait
	}
}

// NewClient creates a new Client.
func NewClient(options ...Option) *Client {
	client := &Client{
		httpClient:    &http.Client{Timeout: defaultTimeout},
		MaxRetries:    defaultMaxRetries,
		RetryDelay:    defaultRetryDelay,
		BackoffFactor: defaultBackoffFactor,
		wait:          sleep,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Backoff returns how long the client will wait before the given retry
// (1 for the first retry).
func (client *Client) Backoff(attempt uint) time.Duration {
	if attempt == 0 {
		return 0
	}
	factor := math.Pow(client.BackoffFactor, float64(attempt-1))
	return time.Duration(float64(client.RetryDelay) * factor)
}

// DoOnce executes a request exactly once, with no retries.
func (client *Client) DoOnce(request *http.Request) (*http.Response, error) {
	return client.httpClient.Do(request)
}

// Do will execute an http.Request, similar to `http.Do`, but will retry
// the request if the server replies with a retryable status code or if the
// request fails outright.  Once retries are exhausted, the last response (or
// error) is returned as-is; the caller is responsible for checking the status.
//
// The caller must close the body of the returned response.
func (client *Client) Do(request *http.Request, onRetry RetryCallback) (*http.Response, error) {
	ctx := request.Context()

	for attempt := uint(1); ; attempt++ {
		resp, err := client.httpClient.Do(request.Clone(ctx))

		reason := retryReason(ctx, resp, err)
		if reason == "" || attempt > client.MaxRetries {
			return resp, err
		}

		if resp != nil {
			// Drain the body so the connection can be reused.
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		delay := client.Backoff(attempt)
		if onRetry != nil {
			onRetry(attempt, delay, reason)
		}

		if err := client.wait(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// retryReason returns a description of why a request should be retried, or
// "" if it should not be.
func retryReason(ctx context.Context, resp *http.Response, err error) string {
	if err != nil {
		if ctx.Err() != nil {
			return ""
		}
		return err.Error()
	}
	if retryStatusCodes[resp.StatusCode] {
		return fmt.Sprintf("Server replied with %d", resp.StatusCode)
	}
	return ""
}

// GetFile downloads a file using a simple GET request to the specified URL.
// Unlike Do, GetFile treats any non-200 response as an error.
func (client *Client) GetFile(
	ctx context.Context,
	url string,
	filename string,
	reporter FileProgressCallback,
) (written int64, err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if client.userAgent != "" {
		request.Header.Set("User-Agent", client.userAgent)
	}

	resp, err := client.Do(request, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return client.SaveBody(resp, filename, reporter)
}

// SaveBody copies the body of `resp` to `filename`, calling `reporter` with
// progress as the file is written.  The body is written to `filename.part`,
// and the file is renamed to the final filename once the download is
// complete.  If anything goes wrong, the partial file is removed.
//
// SaveBody does not close the body.
func (client *Client) SaveBody(
	resp *http.Response,
	filename string,
	reporter FileProgressCallback,
) (written int64, err error) {
	pw := newProgressWriter(resp, filename, reporter)
	defer func() { pw.Close(err) }()

	partFilename := filename + partialSuffix
	file, err := os.OpenFile(partFilename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("could not open file %s: %w", partFilename, err)
	}
	// Don't defer close of the file so we can rename the file after we close it.

	written, err = io.Copy(file, io.TeeReader(resp.Body, pw))
	if err != nil {
		_ = file.Close()
		_ = os.Remove(partFilename)
		return written, fmt.Errorf("error downloading %s: %w", resp.Request.URL.String(), err)
	}

	if err = file.Close(); err != nil {
		_ = os.Remove(partFilename)
		return written, fmt.Errorf("error closing %s: %w", partFilename, err)
	}

	// Move the file to the final destination.
	if err = os.Rename(partFilename, filename); err != nil {
		_ = os.Remove(partFilename)
		return written, fmt.Errorf("error renaming %s to %s: %w", partFilename, filename, err)
	}

	return written, nil
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsStatusError returns true if err is a StatusError with the given status code.
func IsStatusError(err error, statusCode int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == statusCode
}
