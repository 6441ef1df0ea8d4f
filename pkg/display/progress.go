package display

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/vcs2git/vcs2git/pkg/logging"
)

// Progress reports per-operation progress for a run. On a terminal it
// renders a pterm progress bar; otherwise it falls back to plain lines so
// logs stay readable in CI.
type Progress struct {
	bar   *pterm.ProgressbarPrinter
	plain bool
}

// NewProgress creates a reporter sized for the number of pending
// operations.
func NewProgress(total int) *Progress {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return &Progress{plain: true}
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithRemoveWhenDone(false).
		Start()
	if err != nil {
		logger := logging.GetLogger("display")
		logger.Warn().Err(err).Msg("Cannot start progress bar, using plain output")
		return &Progress{plain: true}
	}
	return &Progress{bar: bar}
}

// Describe announces the operation currently in progress.
func (p *Progress) Describe(msg string) {
	if p.plain {
		fmt.Fprintln(os.Stderr, msg)
		return
	}
	p.bar.UpdateTitle(msg)
}

// Increment marks one operation as finished.
func (p *Progress) Increment() {
	if p.plain {
		return
	}
	p.bar.Increment()
}

// Println emits an out-of-band line (dry-run and skip notices).
func (p *Progress) Println(msg string) {
	if p.plain {
		fmt.Fprintln(os.Stderr, msg)
		return
	}
	pterm.Println(msg)
}

// Finish stops the bar with a closing message.
func (p *Progress) Finish(msg string) {
	if p.plain {
		fmt.Fprintln(os.Stderr, msg)
		return
	}
	p.bar.UpdateTitle(msg)
	if _, err := p.bar.Stop(); err != nil {
		logger := logging.GetLogger("display")
		logger.Debug().Err(err).Msg("Cannot stop progress bar")
	}
}
