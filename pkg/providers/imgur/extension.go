package imgur

import "regexp"

// DefaultExtension is used when a URL doesn't end in an extension.
const DefaultExtension = "jpeg"

var extensionRegex = regexp.MustCompile(`\.([a-zA-Z0-9]+)(?:\?.*)?$`)

// ExtensionOf returns the file extension at the end of a URL (ignoring any
// query string), without the leading ".".  Case is preserved.  If the URL
// doesn't end in an extension, returns DefaultExtension.
func ExtensionOf(url string) string {
	match := extensionRegex.FindStringSubmatch(url)
	if match != nil {
		return match[1]
	}
	return DefaultExtension
}
