package download

import (
	"regexp"
	"strings"
)

// httpToken is the regex to get a "token" from RFC7230, S3.2.6.
const httpToken = "[!#$%&'*+-.^_`|~0-9a-zA-Z]"

// mediaTypeRegex parses media type, as per RFC7231, S3.1.1.1.
var mediaTypeRegex = regexp.MustCompile("(" + httpToken + "*/" + httpToken + "*).*")

// ParseContentType returns the media type from a Content-Type header,
// without any parameters.  Returns "" if the header can't be parsed.
func ParseContentType(contentType string) string {
	match := mediaTypeRegex.FindStringSubmatch(contentType)
	if match != nil {
		return match[1]
	}
	return ""
}

// IsImageContentType returns true if a Content-Type header declares image
// content.  This is a loose check - anything mentioning "image" counts.
func IsImageContentType(contentType string) bool {
	return strings.Contains(contentType, "image")
}
