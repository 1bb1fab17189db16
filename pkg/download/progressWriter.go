package download

import (
	"net/http"
	"sync/atomic"
	"time"
)

const minTimeBetweenProgressReports = 100 * time.Millisecond

// Returns a new progressWriter.  Anything written to the writer will cause
// progress events to be sent to the FileProgressCallback.
func newProgressWriter(
	resp *http.Response,
	file string,
	reporter FileProgressCallback,
) *progressWriter {
	return &progressWriter{progress: newProgress(resp, file), reporter: reporter}
}

// progressWriter writes progress reports to `progress` periodically.
type progressWriter struct {
	progress *Progress
	reporter FileProgressCallback
	// If non-zero, progress reports should not be sent.
	blockProgress int32
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.progress.Written += int64(n)

	pw.reportProgress()
	return n, nil
}

func (pw *progressWriter) Close(err error) {
	if pw.reporter == nil {
		return
	}
	pw.updatePercent()
	pw.progress.Err = err
	pw.progress.Done = true
	pw.reporter(pw.progress)
}

func (pw *progressWriter) updatePercent() {
	var complete float64 = -1
	if pw.progress.Total > 0 {
		complete = float64(pw.progress.Written) / float64(pw.progress.Total) * 100.0
	} else if pw.progress.Total == 0 {
		complete = 100
	}
	pw.progress.PercentComplete = complete
}

func (pw *progressWriter) reportProgress() {
	blockProgress := atomic.LoadInt32(&pw.blockProgress)
	if blockProgress == 0 && pw.reporter != nil {
		pw.updatePercent()

		// Send progress report
		pw.reporter(pw.progress)

		// Block progress for next minTimeBetweenProgressReports
		atomic.StoreInt32(&pw.blockProgress, 1)
		time.AfterFunc(minTimeBetweenProgressReports, func() {
			atomic.StoreInt32(&pw.blockProgress, 0)
		})
	}
}
