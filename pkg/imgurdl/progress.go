package imgurdl

import (
	"time"

	"github.com/jwalton/imgurdl/pkg/download"
)

// ProgressReporter is an interface for receiving progress updates from imgurdl.
type ProgressReporter interface {
	// ImageStart is called when the request for an image is about to be made.
	ImageStart(target *Target)
	// ImageRetry is called before waiting to retry a failed request.
	ImageRetry(target *Target, attempt uint, delay time.Duration, reason string)
	// ImageProgress is called as the image is written to disk.
	ImageProgress(target *Target, progress *download.Progress)
	// ImageEnd is called once for every download, with the final status.
	ImageEnd(target *Target, status Status)
}

type nopReporter struct{}

func (nopReporter) ImageStart(*Target) {}
func (nopReporter) ImageRetry(*Target, uint, time.Duration, string) {}
func (nopReporter) ImageProgress(*Target, *download.Progress) {}
func (nopReporter) ImageEnd(*Target, Status) {}

// Returns a download.FileProgressCallback which forwards data to the passed in ProgressReporter.
func newDownloadProgressWrapper(reporter ProgressReporter, target *Target) download.FileProgressCallback {
	return func(progress *download.Progress) {
		reporter.ImageProgress(target, progress)
	}
}

// Returns a download.RetryCallback which forwards retries to the passed in ProgressReporter.
func newRetryWrapper(reporter ProgressReporter, target *Target) download.RetryCallback {
	return func(attempt uint, delay time.Duration, reason string) {
		reporter.ImageRetry(target, attempt, delay, reason)
	}
}
