package imgurdl

import (
	"path/filepath"

	"github.com/jwalton/imgurdl/pkg/providers/imgur"
)

// Target is where a single image will be downloaded to.
type Target struct {
	// Identifier is the caller-supplied ID for this image.
	Identifier string
	// URL is the direct URL of the image.
	URL string
	// Folder is the folder the image will be written to.
	Folder string
	// Filename is the name of the file within Folder.
	Filename string
}

// NewTarget returns the target for downloading `url` as `identifier` into `folder`.
// The file is named after the identifier, with the extension from the URL.
func NewTarget(url string, identifier string, folder string) *Target {
	return &Target{
		Identifier: identifier,
		URL:        url,
		Folder:     folder,
		Filename:   identifier + "." + imgur.ExtensionOf(url),
	}
}

// Path returns the full path of the file.
func (target *Target) Path() string {
	return filepath.Join(target.Folder, target.Filename)
}
