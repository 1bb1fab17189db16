package reporters

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jwalton/gchalk"
	"github.com/jwalton/imgurdl/pkg/download"
	"github.com/jwalton/imgurdl/pkg/imgurdl"
	"golang.org/x/term"
)

const maxBarWidth = 100

var progressBarForeground = gchalk.WithBgCyan().Black
var progressBarBackground = gchalk.WithBgBrightBlack().BrightWhite

type downloadingEntry struct {
	progress *download.Progress
	label    string
}

type progressBarReporter struct {
	mutex  sync.Mutex
	width  int
	height int
	// This is the number of lines we want to erase at the start of the next render.
	linesToErase int
	// Map of entries that are currently downloading, indexed by identifier.
	downloading map[string]*downloadingEntry
}

// moveUp moves the cursor up the specified number of lines.
func (*progressBarReporter) moveUp(lines int) {
	fmt.Printf("\u001B[%dA\r", lines)
}

func (p *progressBarReporter) getScreenSize() (width int, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		// Use the last width we had.
		width = p.width
		height = p.height
	}

	if width > maxBarWidth {
		width = maxBarWidth
	}

	p.width = width
	p.height = height

	return width, height
}

func (p *progressBarReporter) render(message string) {
	width, height := p.getScreenSize()

	// Move the cursor to the top of the area we want to overwrite.
	if p.linesToErase > 1 {
		p.moveUp(p.linesToErase - 1)
	}

	// IF there's a message, print it.
	if message != "" {
		fmt.Print("\r" + strings.Repeat(" ", width))
		fmt.Println("\r" + message)
	}

	items := make([]*downloadingEntry, 0, len(p.downloading))
	for _, entry := range p.downloading {
		items = append(items, entry)
	}

	// Sort items so most complete ones are at the top.
	sort.Slice(items, func(i int, j int) bool {
		return items[i].progress.PercentComplete > items[j].progress.PercentComplete
	})

	// Don't print more lines than will fit on the screen.
	if len(items) > (height - 1) {
		items = items[0 : height-1]
	}

	for index, item := range items {
		p.renderItem(item, width)
		if index != len(items)-1 {
			fmt.Println()
		}
	}

	p.linesToErase = len(items)

}

func (p *progressBarReporter) lineToWidth(message string, width int) string {
	if len(message) > width {
		message = message[:width]
	}

	return message + strings.Repeat(" ", width-len(message))
}

func (p *progressBarReporter) renderItem(entry *downloadingEntry, width int) {
	label := entry.label
	complete := fmt.Sprintf("%.2f%%", entry.progress.PercentComplete)

	strWidth := len(label) + len(complete) + 2 // +1 for space, +1 for left margin.
	maxWidth := width - 1
	if strWidth > maxWidth {
		over := strWidth - maxWidth
		if over+1 < len(label) {
			label = label[0:len(label)-(over+1)] + "… "
		}
	}

	strWidth = len(label) + len(complete)
	marginLeft := 1
	marginRight := maxWidth - strWidth - marginLeft
	if marginRight < 0 {
		marginRight = 0
	}

	line := strings.Repeat(" ", marginLeft) + label + " " + complete + strings.Repeat(" ", marginRight)

	completeWidth := int(float64(width) * (entry.progress.PercentComplete / 100.0))
	if completeWidth > len(line) {
		// Paranoid...
		completeWidth = len(line)
	}
	if completeWidth < 0 {
		// This will happen if we don't know the length of the file.
		completeWidth = 0
	}

	// The part that will be colored in the "done" color
	lineLeft := line[:completeWidth]
	// The part that will be colored in the "not done" coloe
	lineRight := line[completeWidth:]

	fmt.Printf("\r%s%s",
		progressBarForeground(lineLeft),
		progressBarBackground(lineRight),
	)

}

func (p *progressBarReporter) getItemLabel(target *imgurdl.Target) string {
	return target.Filename
}

func (p *progressBarReporter) ImageStart(target *imgurdl.Target) {
	// Ignore
}

func (p *progressBarReporter) ImageRetry(target *imgurdl.Target, attempt uint, delay time.Duration, reason string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	message := fmt.Sprintf("%s %s: %s (retry %d in %v)",
		gchalk.BrightYellow("Warning :"),
		p.getItemLabel(target),
		reason,
		attempt,
		delay,
	)
	p.render(message)
}

func (p *progressBarReporter) ImageProgress(
	target *imgurdl.Target,
	progress *download.Progress,
) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if entry, exists := p.downloading[target.Identifier]; exists {
		entry.progress = progress
	} else {
		p.downloading[target.Identifier] = &downloadingEntry{
			label:    p.getItemLabel(target),
			progress: progress,
		}
	}

	p.render("")
}

func (p *progressBarReporter) ImageEnd(target *imgurdl.Target, status imgurdl.Status) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	delete(p.downloading, target.Identifier)
	var message string
	if status.OK() {
		message = fmt.Sprintf("%s %s", gchalk.BrightGreen("Complete:"), target.Identifier)
	} else {
		message = fmt.Sprintf("%s %s %s", gchalk.BrightRed("Error   :"), target.Identifier, status)
	}
	p.render(message)
}

// NewProgressBarReporter returns a new ProgressReporter which shows a pretty progress bar.
func NewProgressBarReporter() (imgurdl.ProgressReporter, error) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))

	if err != nil {
		return nil, err
	}

	return &progressBarReporter{
		width:        width,
		height:       height,
		linesToErase: 0,
		downloading:  map[string]*downloadingEntry{},
	}, nil
}
