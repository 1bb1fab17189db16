package imgurdl

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlaceholder(t *testing.T) {
	placeholderFile := filepath.Join(t.TempDir(), "placeholder.png")
	require.NoError(t, ioutil.WriteFile(placeholderFile, makePlaceholderPNG(t), 0644))

	placeholder, err := LoadPlaceholder(placeholderFile)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(makePlaceholderPNG(t)))
	require.NoError(t, err)
	assert.True(t, placeholder.Matches(img))

	_, err = LoadPlaceholder(filepath.Join(t.TempDir(), "missing.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefaultPlaceholderCache(t *testing.T) {
	cache, err := DefaultPlaceholderCache()
	require.NoError(t, err)
	assert.Equal(t, "imgur_placeholder.png", filepath.Base(cache))
	assert.Equal(t, ".imgurdl", filepath.Base(filepath.Dir(cache)))
}

func TestPlaceholderMatches(t *testing.T) {
	original := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	original.Set(1, 1, color.NRGBA{R: 255, A: 255})
	placeholder := NewPlaceholder(original)

	// Same pixels in a different color model still match.
	rgba := image.NewRGBA(image.Rect(0, 0, 3, 2))
	rgba.Set(1, 1, color.RGBA{R: 255, A: 255})
	assert.True(t, placeholder.Matches(rgba))

	different := imaging.Clone(original)
	different.Set(0, 0, color.NRGBA{B: 1, A: 255})
	assert.False(t, placeholder.Matches(different))

	bigger := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	bigger.Set(1, 1, color.NRGBA{R: 255, A: 255})
	assert.False(t, placeholder.Matches(bigger))
}

func TestPlaceholderMatchesFile(t *testing.T) {
	placeholder := decodePlaceholder(t, makePlaceholderPNG(t))

	dir := t.TempDir()

	placeholderFile := filepath.Join(dir, "placeholder.png")
	require.NoError(t, ioutil.WriteFile(placeholderFile, makePlaceholderPNG(t), 0644))
	matches, err := placeholder.MatchesFile(placeholderFile)
	require.NoError(t, err)
	assert.True(t, matches)

	otherFile := filepath.Join(dir, "other.png")
	require.NoError(t, ioutil.WriteFile(otherFile, makePNG(t), 0644))
	matches, err = placeholder.MatchesFile(otherFile)
	require.NoError(t, err)
	assert.False(t, matches)

	garbageFile := filepath.Join(dir, "garbage.png")
	require.NoError(t, ioutil.WriteFile(garbageFile, []byte("nope"), 0644))
	_, err = placeholder.MatchesFile(garbageFile)
	assert.Error(t, err)
}

func TestLoadPlaceholderFromFile(t *testing.T) {
	placeholderFile := filepath.Join(t.TempDir(), "placeholder.png")
	require.NoError(t, ioutil.WriteFile(placeholderFile, makePNG(t), 0644))

	placeholder, err := LoadPlaceholder(placeholderFile)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(makePNG(t)))
	require.NoError(t, err)
	assert.True(t, placeholder.Matches(img))

	_, err = DecodePlaceholder(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
