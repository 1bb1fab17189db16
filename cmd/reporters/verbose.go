package reporters

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jwalton/gchalk"
	"github.com/jwalton/imgurdl/pkg/download"
	"github.com/jwalton/imgurdl/pkg/imgurdl"
)

type verboseReporter struct {
	mutex sync.Mutex
	out   io.Writer
}

func (p *verboseReporter) log(message string, a ...interface{}) {
	p.mutex.Lock()
	fmt.Fprintln(p.out, fmt.Sprintf(message, a...))
	p.mutex.Unlock()
}

func (p *verboseReporter) logWarning(message string, a ...interface{}) {
	p.mutex.Lock()
	os.Stderr.WriteString(gchalk.Stderr.BrightYellow(fmt.Sprintf(message, a...)) + "\n")
	p.mutex.Unlock()
}

func (p *verboseReporter) ImageStart(target *imgurdl.Target) {
	p.log("Downloading: %s (%s)", target.Identifier, target.URL)
}

func (p *verboseReporter) ImageRetry(target *imgurdl.Target, attempt uint, delay time.Duration, reason string) {
	p.logWarning("Retrying:    %s: %s (retry %d in %v)", target.Identifier, reason, attempt, delay)
}

func (p *verboseReporter) ImageProgress(target *imgurdl.Target, progress *download.Progress) {
	if progress.Done && progress.Err == nil {
		mimeType := progress.MimeType
		if mimeType == "" {
			mimeType = "unknown type"
		}
		p.log("Downloaded:  %s %v/%v bytes (%s)", target.Filename, progress.Written, progress.Total, mimeType)
	}
}

func (p *verboseReporter) ImageEnd(target *imgurdl.Target, status imgurdl.Status) {
	if status.OK() {
		p.log("%s %s", target.Identifier, gchalk.BrightGreen(status.String()))
	} else {
		p.log("%s %s", target.Identifier, gchalk.BrightRed(status.String()))
	}
}

// NewVerboseReporter returns a new ProgressReporter which logs all activity to stdout.
func NewVerboseReporter() imgurdl.ProgressReporter {
	return &verboseReporter{out: os.Stdout}
}
