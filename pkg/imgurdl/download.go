// Package imgurdl downloads single images from imgur, given any kind of imgur
// URL - a direct link to an image, a post page, or an album.
package imgurdl

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/jwalton/imgurdl/pkg/download"
	"github.com/jwalton/imgurdl/pkg/providers"
	"github.com/jwalton/imgurdl/pkg/providers/env"
	"github.com/jwalton/imgurdl/pkg/providers/imgur"
	"github.com/jwalton/imgurdl/pkg/providers/types"
)

// URLKind is the shape of an imgur URL.
type URLKind = imgur.URLKind

// Unrecovered is the URL returned by AlbumImageURL when an album page doesn't
// name an image.  Passing it to FetchDirect returns StatusURLUnrecovered.
const Unrecovered = imgur.Unrecovered

// Classify works out what kind of imgur URL `url` is.
func Classify(url string) URLKind {
	return imgur.Classify(url)
}

// Downloader downloads images from imgur.  A Downloader makes one request at
// a time per call, and is safe to reuse for many calls.  Construct one with
// NewDownloader.
type Downloader struct {
	env         *env.Env
	placeholder *Placeholder
	reporter    ProgressReporter
}

type settings struct {
	httpClient      *http.Client
	clientOptions   []download.Option
	userAgent       string
	placeholder      *Placeholder
	placeholderFile  string
	placeholderCache string
	reporter         ProgressReporter
}

// Option is an option that can be passed to NewDownloader().
type Option func(*settings)

// SetHTTPClient sets the http.Client used to make requests.  Note that
// SetTimeout will override the timeout on this client.
func SetHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		s.httpClient = client
	}
}

// SetUserAgent sets the User-Agent sent with every request.
func SetUserAgent(userAgent string) Option {
	return func(s *settings) {
		s.userAgent = userAgent
	}
}

// SetMaxRetries sets how many times a failed image request is retried.  Album
// pages are never retried.
func SetMaxRetries(retries uint) Option {
	return func(s *settings) {
		s.clientOptions = append(s.clientOptions, download.MaxRetries(retries))
	}
}

// SetRetryDelay sets how long to wait before the first retry.
func SetRetryDelay(delay time.Duration) Option {
	return func(s *settings) {
		s.clientOptions = append(s.clientOptions, download.RetryDelay(delay))
	}
}

// SetBackoffFactor sets the multiplier applied to the delay between each retry.
func SetBackoffFactor(factor float64) Option {
	return func(s *settings) {
		s.clientOptions = append(s.clientOptions, download.BackoffFactor(factor))
	}
}

// SetTimeout sets the timeout for each individual request.  0 for no timeout.
func SetTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.clientOptions = append(s.clientOptions, download.WithTimeout(timeout))
	}
}

// SetPlaceholderFile loads the placeholder image from a file.  The file must
// exist.  "" means use the placeholder cache.
func SetPlaceholderFile(filename string) Option {
	return func(s *settings) {
		s.placeholderFile = filename
		s.placeholder = nil
	}
}

// SetPlaceholder sets the placeholder image to compare downloads against.
func SetPlaceholder(placeholder *Placeholder) Option {
	return func(s *settings) {
		s.placeholder = placeholder
		s.placeholderFile = ""
	}
}

// SetPlaceholderCache sets where the placeholder is cached when neither
// SetPlaceholder nor SetPlaceholderFile is used.  If the file is missing,
// NewDownloader fetches PlaceholderURL into it.  Defaults to
// DefaultPlaceholderCache().
func SetPlaceholderCache(filename string) Option {
	return func(s *settings) {
		s.placeholderCache = filename
	}
}

// SetReporter sets a ProgressReporter which will be notified as images download.
func SetReporter(reporter ProgressReporter) Option {
	return func(s *settings) {
		s.reporter = reporter
	}
}

// withClientOptions passes options straight through to the download.Client.
func withClientOptions(options ...download.Option) Option {
	return func(s *settings) {
		s.clientOptions = append(s.clientOptions, options...)
	}
}

// NewDownloader returns a new Downloader.  Returns an error if the placeholder
// image can't be loaded.
//
// With no placeholder configured, the placeholder is read from the cache, and
// if the cache is empty it is downloaded from imgur first.  The download is
// bounded by the request timeout.
func NewDownloader(options ...Option) (*Downloader, error) {
	s := &settings{reporter: nopReporter{}}
	for _, option := range options {
		option(s)
	}

	clientOptions := []download.Option{}
	if s.httpClient != nil {
		clientOptions = append(clientOptions, download.WithClient(s.httpClient))
	}
	clientOptions = append(clientOptions, download.UserAgent(userAgentOrDefault(s.userAgent)))
	clientOptions = append(clientOptions, s.clientOptions...)
	client := download.NewClient(clientOptions...)

	placeholder, err := s.loadPlaceholder(client)
	if err != nil {
		return nil, err
	}

	reporter := s.reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	return &Downloader{
		env:         env.New(client, s.userAgent),
		placeholder: placeholder,
		reporter:    reporter,
	}, nil
}

func (s *settings) loadPlaceholder(client *download.Client) (*Placeholder, error) {
	switch {
	case s.placeholder != nil:
		return s.placeholder, nil
	case s.placeholderFile != "":
		return LoadPlaceholder(s.placeholderFile)
	}

	cache := s.placeholderCache
	if cache == "" {
		var err error
		cache, err = DefaultPlaceholderCache()
		if err != nil {
			return nil, err
		}
	}

	return loadCachedPlaceholder(context.Background(), client, cache)
}

func userAgentOrDefault(userAgent string) string {
	if userAgent == "" {
		return env.DefaultUserAgent
	}
	return userAgent
}

// Download downloads the image for any kind of imgur URL, and saves it in
// `folder` named after `identifier`.  `folder` must already exist.
func (d *Downloader) Download(ctx context.Context, url string, identifier string, folder string) Status {
	provider, err := providers.GetProviderForURL(url)
	if err != nil {
		return d.end(NewTarget(url, identifier, folder), statusOf(StatusUnclassified))
	}

	return d.resolveAndFetch(ctx, provider, url, identifier, folder)
}

// DownloadPost downloads the image from an imgur post page, like
// https://imgur.com/abc123.  The post URL is rewritten into a direct image
// URL without fetching the page.
func (d *Downloader) DownloadPost(ctx context.Context, url string, identifier string, folder string) Status {
	return d.resolveAndFetch(ctx, imgur.PostProvider(), url, identifier, folder)
}

// DownloadAlbum downloads the cover image of an imgur album or gallery.
func (d *Downloader) DownloadAlbum(ctx context.Context, url string, identifier string, folder string) Status {
	return d.resolveAndFetch(ctx, imgur.AlbumProvider(), url, identifier, folder)
}

// AlbumImageURL fetches an album page and returns the URL of its cover image,
// or Unrecovered if the page doesn't name one.  If the page can't be fetched,
// this returns "" and an error.
func (d *Downloader) AlbumImageURL(ctx context.Context, url string) (string, error) {
	return imgur.AlbumProvider().ImageURL(ctx, d.env, url)
}

// resolveAndFetch uses `provider` to find the direct URL for `url`, and then
// fetches it.  A page that could not be fetched because of its status code
// resolves to "", which FetchDirect reports as StatusURLMissing.
func (d *Downloader) resolveAndFetch(
	ctx context.Context,
	provider types.Provider,
	url string,
	identifier string,
	folder string,
) Status {
	imageURL, err := provider.ImageURL(ctx, d.env, url)

	var statusErr *download.StatusError
	switch {
	case err == nil, errors.As(err, &statusErr):
		return d.FetchDirect(ctx, imageURL, identifier, folder)
	case errors.Is(err, imgur.ErrConversionFailed):
		return d.end(NewTarget(url, identifier, folder), statusOf(StatusConversionFailed))
	default:
		return d.end(NewTarget(url, identifier, folder), failed(err))
	}
}

// FetchDirect downloads an image from a direct image URL, and saves it in
// `folder` as `identifier.ext`, where "ext" is the extension from the URL.
//
// The file is only kept if the server replied with a 200, declared the
// content as an image, and the image isn't imgur's placeholder.  If the
// returned status is anything other than StatusSuccess, no file is left
// behind.
func (d *Downloader) FetchDirect(ctx context.Context, url string, identifier string, folder string) Status {
	target := NewTarget(url, identifier, folder)
	return d.end(target, d.fetchDirect(ctx, target))
}

func (d *Downloader) end(target *Target, status Status) Status {
	d.reporter.ImageEnd(target, status)
	return status
}

func (d *Downloader) fetchDirect(ctx context.Context, target *Target) Status {
	switch target.URL {
	case Unrecovered:
		return statusOf(StatusURLUnrecovered)
	case "":
		return statusOf(StatusURLMissing)
	}

	d.reporter.ImageStart(target)

	req, err := d.env.NewGetRequest(ctx, target.URL)
	if err != nil {
		return failed(err)
	}

	client := d.env.DownloadClient
	resp, err := client.Do(req, newRetryWrapper(d.reporter, target))
	if err != nil {
		return failed(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpError(resp.StatusCode)
	}

	if !download.IsImageContentType(resp.Header.Get("Content-Type")) {
		return statusOf(StatusNotAnImage)
	}

	filename := target.Path()
	_, err = client.SaveBody(resp, filename, newDownloadProgressWrapper(d.reporter, target))
	if err != nil {
		return failed(err)
	}

	isPlaceholder, err := d.placeholder.MatchesFile(filename)
	if err != nil {
		_ = os.Remove(filename)
		return failed(err)
	}
	if isPlaceholder {
		if err := os.Remove(filename); err != nil {
			return failed(err)
		}
		return statusOf(StatusPlaceholder)
	}

	return success(filename)
}
