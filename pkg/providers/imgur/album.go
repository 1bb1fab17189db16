package imgur

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalton/imgurdl/pkg/providers/env"
	"github.com/jwalton/imgurdl/pkg/providers/internal/htmlutils"
	"github.com/jwalton/imgurdl/pkg/providers/types"
	"golang.org/x/net/html"
)

// Unrecovered is returned in place of an image URL when an album page was
// fetched, but we couldn't find an image in it.
const Unrecovered = "unrecovered"

// AlbumProvider returns a provider for imgur albums and galleries.  Only the
// cover image of the album is resolved.
func AlbumProvider() types.Provider {
	return albumProvider{}
}

type albumProvider struct{}

func (albumProvider) Name() string {
	return "imgur-album"
}

// CanDownload returns true if this provider can download the given URL.
func (albumProvider) CanDownload(url string) bool {
	return Classify(url) == Album
}

// ImageURL fetches the album page and returns the URL of its cover image.
//
// If the page can't be fetched, returns "" and an error (a
// *download.StatusError if the server replied with something other than a 200).
// If the page doesn't name an image, returns Unrecovered and no error.
func (albumProvider) ImageURL(ctx context.Context, env *env.Env, url string) (string, error) {
	node, err := env.GetHTML(ctx, url)
	if err != nil {
		return "", fmt.Errorf("unable to fetch album: %w", err)
	}

	return parseAlbum(node), nil
}

// parseAlbum finds the cover image of an album page from its "og:image" meta
// tag, with any query string removed.
func parseAlbum(node *html.Node) string {
	meta := htmlutils.FindMetaProperty(node, "og:image")
	if meta == nil {
		return Unrecovered
	}

	imageURL := htmlutils.GetNodeAttr(meta, "content")
	if index := strings.Index(imageURL, "?"); index != -1 {
		imageURL = imageURL[:index]
	}

	if imageURL == "" {
		return Unrecovered
	}
	return imageURL
}
