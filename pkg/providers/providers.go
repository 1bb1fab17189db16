package providers

import (
	"fmt"

	"github.com/jwalton/imgurdl/pkg/providers/imgur"
	"github.com/jwalton/imgurdl/pkg/providers/types"
)

type Provider = types.Provider

// providerRegistry is checked in order, so a URL which more than one provider
// could handle goes to the first one.
var providerRegistry = []Provider{
	imgur.ImageProvider(),
	imgur.AlbumProvider(),
	imgur.PostProvider(),
}

// ErrNoProvider is returned when no provider can handle a URL.
var ErrNoProvider = fmt.Errorf("could not find suitable provider")

// GetProviderForURL returns the first provider which can handle the given URL.
func GetProviderForURL(url string) (Provider, error) {
	for index := range providerRegistry {
		provider := providerRegistry[index]
		if provider.CanDownload(url) {
			return provider, nil
		}
	}

	return nil, fmt.Errorf("%w for url: %s", ErrNoProvider, url)
}
