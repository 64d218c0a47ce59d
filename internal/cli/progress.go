package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// cliProgress draws a percentage bar on stderr. When stderr is not a
// terminal nothing is drawn.
type cliProgress struct {
	bar      *progressbar.ProgressBar
	finished bool
}

func newCLIProgress(description string) *cliProgress {
	return newCLIProgressTo(os.Stderr, description, term.IsTerminal(int(os.Stderr.Fd())))
}

func newCLIProgressTo(w io.Writer, description string, enabled bool) *cliProgress {
	if !enabled {
		return &cliProgress{}
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &cliProgress{bar: bar}
}

// Update moves the bar to percent.
func (p *cliProgress) Update(percent int) {
	if p.bar != nil && !p.finished {
		_ = p.bar.Set(percent)
	}
}

// Finish completes the bar once. Later calls do nothing.
func (p *cliProgress) Finish() {
	if p.bar == nil || p.finished {
		return
	}
	p.finished = true
	_ = p.bar.Finish()
}
