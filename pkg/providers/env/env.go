// Package env provides a common "environment" object with utility functions
// and settings information for all providers.
package env

import (
	"context"
	"net/http"

	"github.com/jwalton/imgurdl/pkg/download"
	"golang.org/x/net/html"
)

// DefaultUserAgent is the User-Agent sent with every request.  imgur serves
// different content (or nothing at all) to clients that don't look like a
// browser.
const DefaultUserAgent = "Mozilla/5.0"

// Env is a common "environment" object with utility functions and settings
// information that is passed to all providers.
type Env struct {
	// DownloadClient is the client that wil be used to download files.
	// This must be provided.
	DownloadClient *download.Client
	// UserAgent is sent with every request.  If empty, DefaultUserAgent is used.
	UserAgent string
}

// New returns a new Env which uses the given client.
func New(client *download.Client, userAgent string) *Env {
	return &Env{DownloadClient: client, UserAgent: userAgent}
}

// NewGetRequest creates a new http GET request.
func (env *Env) NewGetRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	userAgent := env.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)

	return req, nil
}

// Get will fetch the contents of a URL via HTTP GET.  The request is only
// attempted once.
func (env *Env) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := env.NewGetRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	return env.DownloadClient.DoOnce(req)
}

// GetHTML will fetch the HTML contents of a URL via HTTP GET, and return the
// parsed HTML.  If the server replies with anything other than a 200, this
// returns a *download.StatusError.
func (env *Env) GetHTML(ctx context.Context, url string) (*html.Node, error) {
	resp, err := env.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &download.StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return html.Parse(resp.Body)
}
