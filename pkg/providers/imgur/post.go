package imgur

import (
	"context"
	"errors"
	"strings"

	"github.com/jwalton/imgurdl/pkg/providers/env"
	"github.com/jwalton/imgurdl/pkg/providers/types"
)

const postPrefix = "://imgur."
const cdnPrefix = "://i.imgur."

// ErrConversionFailed is returned when a post URL can't be rewritten into a
// direct image URL.
var ErrConversionFailed = errors.New("failed to convert post URL to image URL")

// PostProvider returns a provider for imgur post pages, like https://imgur.com/abc123.
func PostProvider() types.Provider {
	return postProvider{}
}

type postProvider struct{}

func (postProvider) Name() string {
	return "imgur-post"
}

// CanDownload returns true if this provider can download the given URL.
func (postProvider) CanDownload(url string) bool {
	return Classify(url) == Post
}

// ImageURL rewrites a post URL into a direct image URL.  This never makes a
// network request.
func (postProvider) ImageURL(ctx context.Context, env *env.Env, url string) (string, error) {
	return PostImageURL(url)
}

// PostImageURL rewrites a post URL like `https://imgur.com/abc123` into the
// direct image URL `https://i.imgur.com/abc123.jpeg`.  imgur serves the image
// no matter which extension we ask for, so ".jpeg" is as good as any.
//
// Returns ErrConversionFailed if the URL doesn't contain "://imgur.".
func PostImageURL(url string) (string, error) {
	if !strings.Contains(url, postPrefix) {
		return "", ErrConversionFailed
	}

	return strings.Replace(url, postPrefix, cdnPrefix, 1) + "." + DefaultExtension, nil
}
