package download

import "net/http"

// Progress represents progress downloading a file.
type Progress struct {
	// URL is the URL we are downloading from.  If the server redirected us,
	// this is the URL we ended up at.
	URL string
	// File is the file we are writing to.
	File string
	// MimeType is the media type the server declared for the file, or "" if
	// it didn't declare one.
	MimeType string
	// Total is the total size of the file, or -1 if unknown.
	Total int64
	// Written is the number of bytes written to disk.
	Written int64
	// PercentComplete is a value between 0 and 100 indicating completion progress.
	// If the total size is unknown, PercentComplete will be -1.
	PercentComplete float64
	// Done is true if the download is complete, false otherwise.
	Done bool
	// Err will always be nil if Done is false, otherwise if set it is an error
	// which caused the download to fail.
	Err error
}

// FileProgressCallback is function that will be called with updates as a file downloads.
// Note that the exact same instance of `Progress` is updated and passed every
// time this is called to minimize allocations - if you want to write a Progress
// to a channel or send it to another thread, you should make a copy of it.
type FileProgressCallback func(progress *Progress)

func newProgress(resp *http.Response, filename string) *Progress {
	url := ""
	if resp.Request != nil {
		url = resp.Request.URL.String()
	}

	total := resp.ContentLength
	if total < 0 {
		total = -1
	}

	return &Progress{
		URL:             url,
		File:            filename,
		MimeType:        ParseContentType(resp.Header.Get("Content-Type")),
		Total:           total,
		Written:         0,
		PercentComplete: 0,
		Done:            false,
		Err:             nil,
	}
}
