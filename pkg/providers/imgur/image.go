package imgur

import (
	"context"

	"github.com/jwalton/imgurdl/pkg/providers/env"
	"github.com/jwalton/imgurdl/pkg/providers/types"
)

// ImageProvider returns a provider for direct links to images on i.imgur.com.
func ImageProvider() types.Provider {
	return imageProvider{}
}

type imageProvider struct{}

func (imageProvider) Name() string {
	return "imgur-image"
}

// CanDownload returns true if this provider can download the given URL.
func (imageProvider) CanDownload(url string) bool {
	return Classify(url) == Image
}

// ImageURL returns `url` unchanged - it's already a direct link.
func (imageProvider) ImageURL(ctx context.Context, env *env.Env, url string) (string, error) {
	return url, nil
}
