// Package progress renders analysis progress on stderr.
package progress

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a terminal progress bar driven by phase fractions in [0,1].
type Tracker struct {
	bar     *progressbar.ProgressBar
	enabled bool
}

// NewTracker creates a 100-step bar with the given description. When
// enabled is false every method is a no-op, which keeps call sites free of
// conditionals.
func NewTracker(description string, enabled bool) *Tracker {
	if !enabled {
		return &Tracker{}
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, enabled: true}
}

// Update moves the bar to fraction (clamped to [0,1]) and relabels it.
func (t *Tracker) Update(fraction float64, message string) {
	if !t.enabled {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	if message != "" {
		t.bar.Describe(message)
	}
	_ = t.bar.Set(int(fraction * 100))
}

// FinishSuccess completes the bar and moves to a fresh line.
func (t *Tracker) FinishSuccess() {
	if !t.enabled {
		return
	}
	_ = t.bar.Finish()
	os.Stderr.WriteString("\n")
}
