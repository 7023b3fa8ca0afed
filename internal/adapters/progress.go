package adapters

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"rnlink/internal/ports"
)

// ProgressBarAdapter renders registry lookups as a progress bar on stderr.
type ProgressBarAdapter struct {
	Writer io.Writer

	bar         *progressbar.ProgressBar
	description string
}

func NewProgressBarAdapter() *ProgressBarAdapter {
	return &ProgressBarAdapter{Writer: os.Stderr}
}

func (a *ProgressBarAdapter) Start(description string, total int) {
	a.description = description
	a.bar = progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(a.Writer),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionThrottle(80*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(a.Writer, "\n")
		}),
	)
}

// Advance counts one finished step and names it in the description. The
// bar serializes concurrent calls.
func (a *ProgressBarAdapter) Advance(label string) {
	if a.bar == nil {
		return
	}
	a.bar.Describe(stepDescription(a.description, label))
	_ = a.bar.Add(1)
}

func stepDescription(description string, label string) string {
	if label == "" {
		return description
	}
	return description + " (" + label + ")"
}

func (a *ProgressBarAdapter) Finish() {
	if a.bar == nil {
		return
	}
	_ = a.bar.Finish()
	a.bar = nil
}

// NoopProgress discards progress updates.
type NoopProgress struct{}

func (NoopProgress) Start(string, int) {}
func (NoopProgress) Advance(string)    {}
func (NoopProgress) Finish()           {}

var (
	_ ports.ProgressPort = (*ProgressBarAdapter)(nil)
	_ ports.ProgressPort = NoopProgress{}
)
