package types

import (
	"context"

	"github.com/jwalton/imgurdl/pkg/providers/env"
)

// Provider represents a back-end which knows how to turn one shape of URL
// into the URL of a single image that can be downloaded directly.
type Provider interface {
	// Name is the name of this provider.
	Name() string
	// CanDownload returns true if this Provider can resolve the specified URL.
	CanDownload(url string) bool
	// ImageURL returns the direct URL of the image for the specified URL.
	ImageURL(ctx context.Context, env *env.Env, url string) (string, error)
}
