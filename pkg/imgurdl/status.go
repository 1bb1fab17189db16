package imgurdl

import "fmt"

// StatusKind is the outcome of a download.
type StatusKind int

const (
	// StatusSuccess means the image was downloaded.
	StatusSuccess StatusKind = iota
	// StatusNotAnImage means the server replied with something that wasn't an image.
	StatusNotAnImage
	// StatusPlaceholder means the server replied with imgur's "not found"
	// placeholder image.  The file was removed.
	StatusPlaceholder
	// StatusURLUnrecovered means an album page was fetched, but no image URL
	// could be found in it.
	StatusURLUnrecovered
	// StatusURLMissing means there was no URL to fetch, usually because the
	// album page could not be fetched.
	StatusURLMissing
	// StatusConversionFailed means a post URL could not be rewritten into an
	// image URL.
	StatusConversionFailed
	// StatusUnclassified means the URL is not a recognizable imgur URL.
	StatusUnclassified
	// StatusHTTPError means the server replied with a status other than 200.
	// See Status.StatusCode.
	StatusHTTPError
	// StatusFailed means something went wrong with the request, writing the
	// file, or decoding the image.  See Status.Err.
	StatusFailed
)

// Status is the result of trying to download an image.
type Status struct {
	Kind StatusKind
	// StatusCode is the HTTP status code for StatusHTTPError.
	StatusCode int
	// Err is the underlying error for StatusFailed.
	Err error
	// File is the path of the downloaded file for StatusSuccess.
	File string
}

func success(file string) Status {
	return Status{Kind: StatusSuccess, File: file}
}

func failed(err error) Status {
	return Status{Kind: StatusFailed, Err: err}
}

func httpError(statusCode int) Status {
	return Status{Kind: StatusHTTPError, StatusCode: statusCode}
}

func statusOf(kind StatusKind) Status {
	return Status{Kind: kind}
}

// OK returns true if the image was downloaded.
func (s Status) OK() bool {
	return s.Kind == StatusSuccess
}

// String returns the status in the form callers record in manifests, like
// "success", "failure:placeholder", or "error:404".
func (s Status) String() string {
	switch s.Kind {
	case StatusSuccess:
		return "success"
	case StatusNotAnImage:
		return "failure:not-an-image"
	case StatusPlaceholder:
		return "failure:placeholder"
	case StatusURLUnrecovered:
		return "failure:url-unrecovered"
	case StatusURLMissing:
		return "failure:url-missing"
	case StatusConversionFailed:
		return "failure:conversion-failed"
	case StatusUnclassified:
		return "failure:unclassified"
	case StatusHTTPError:
		return fmt.Sprintf("error:%d", s.StatusCode)
	default:
		if s.Err == nil {
			return "failure:unknown"
		}
		return "failure:" + s.Err.Error()
	}
}
