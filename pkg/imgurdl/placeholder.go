package imgurdl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/jwalton/imgurdl/pkg/download"
	homedir "github.com/mitchellh/go-homedir"
	_ "golang.org/x/image/webp" // imgur serves webp for some URLs
)

// PlaceholderURL is where imgur serves its "image not found" placeholder.
const PlaceholderURL = "https://i.imgur.com/removed.png"

// Placeholder is a decoded copy of imgur's "not found" image.  When imgur
// can't find an image, it often replies with a 200 and this image instead of
// a 404, so the only way to tell is to compare pixels.
type Placeholder struct {
	pixels *image.NRGBA
}

// DefaultPlaceholderCache returns where the placeholder is cached when no
// placeholder is configured: ~/.imgurdl/imgur_placeholder.png.
func DefaultPlaceholderCache() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory for placeholder cache: %w", err)
	}
	return filepath.Join(home, ".imgurdl", "imgur_placeholder.png"), nil
}

// LoadPlaceholder loads the placeholder image from a file.
func LoadPlaceholder(filename string) (*Placeholder, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open placeholder image: %w", err)
	}
	defer file.Close()

	return DecodePlaceholder(file)
}

// FetchPlaceholder downloads imgur's placeholder from PlaceholderURL to
// `filename`, creating its folder if needed, and returns it decoded.  If the
// download isn't a usable image, the file is removed.
func FetchPlaceholder(ctx context.Context, client *download.Client, filename string) (*Placeholder, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, err
	}

	_, err := client.GetFile(ctx, PlaceholderURL, filename, nil)
	if err != nil {
		return nil, fmt.Errorf("could not download placeholder image: %w", err)
	}

	placeholder, err := LoadPlaceholder(filename)
	if err != nil {
		_ = os.Remove(filename)
		return nil, err
	}
	return placeholder, nil
}

// loadCachedPlaceholder loads the placeholder from `filename`, fetching it
// first if the file doesn't exist yet.
func loadCachedPlaceholder(ctx context.Context, client *download.Client, filename string) (*Placeholder, error) {
	placeholder, err := LoadPlaceholder(filename)
	if errors.Is(err, os.ErrNotExist) {
		return FetchPlaceholder(ctx, client, filename)
	}
	return placeholder, err
}

// DecodePlaceholder reads a placeholder image from `r`.
func DecodePlaceholder(r io.Reader) (*Placeholder, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode placeholder image: %w", err)
	}
	return NewPlaceholder(img), nil
}

// NewPlaceholder returns a Placeholder for an already decoded image.
func NewPlaceholder(img image.Image) *Placeholder {
	return &Placeholder{pixels: imaging.Clone(img)}
}

// Matches returns true if `img` has exactly the same size and pixels as the
// placeholder.
func (p *Placeholder) Matches(img image.Image) bool {
	other := imaging.Clone(img)
	if !other.Rect.Eq(p.pixels.Rect) {
		return false
	}
	return bytes.Equal(other.Pix, p.pixels.Pix)
}

// MatchesFile decodes the image in `filename` and returns true if it is the
// placeholder.  Returns an error if the file can't be decoded as an image.
func (p *Placeholder) MatchesFile(filename string) (bool, error) {
	img, err := imaging.Open(filename)
	if err != nil {
		return false, err
	}
	return p.Matches(img), nil
}
