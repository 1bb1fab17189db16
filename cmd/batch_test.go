package cmd

import (
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadManifestWithHeader(t *testing.T) {
	entries, err := readManifest(strings.NewReader(heredoc.Doc(`
		identifier,url
		cat,https://i.imgur.com/cat.png
		dog, https://imgur.com/a/dog
	`)))
	require.NoError(t, err)

	assert.Equal(t, []manifestEntry{
		{Identifier: "cat", URL: "https://i.imgur.com/cat.png"},
		{Identifier: "dog", URL: "https://imgur.com/a/dog"},
	}, entries)
}

func TestReadManifestWithoutHeader(t *testing.T) {
	entries, err := readManifest(strings.NewReader(heredoc.Doc(`
		cat,https://i.imgur.com/cat.png,ignored
	`)))
	require.NoError(t, err)

	assert.Equal(t, []manifestEntry{
		{Identifier: "cat", URL: "https://i.imgur.com/cat.png"},
	}, entries)
}

func TestReadManifestErrors(t *testing.T) {
	_, err := readManifest(strings.NewReader("cat\n"))
	assert.Error(t, err)

	_, err = readManifest(strings.NewReader("cat,\n"))
	assert.Error(t, err)

	entries, err := readManifest(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
