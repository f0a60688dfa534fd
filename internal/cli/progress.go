package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

const timeRound = time.Millisecond

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet bool
	log   *logrus.Logger
	bar   *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool, log *logrus.Logger) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, log: log}
}

func (c *CLIProgressReporter) OnBuildStart() {
	if c.quiet {
		return
	}
	c.log.Info("Discovering declarations...")
}

func (c *CLIProgressReporter) OnFragmentsDiscovered(total int) {
	if c.quiet || total == 0 {
		return
	}
	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Building documentation"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("fragments/s"),
		progressbar.OptionClearOnFinish(),
	)
}

func (c *CLIProgressReporter) OnFragmentProcessed(processed, total int, name string) {
	if c.quiet || c.bar == nil {
		return
	}
	_ = c.bar.Set(processed)
}

func (c *CLIProgressReporter) OnBuildComplete(packages, symbols, warnings int, duration time.Duration) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		_ = c.bar.Finish()
		c.bar = nil
	}
	fmt.Printf("Documented %d packages (%d symbols) in %s\n",
		packages, symbols, duration.Round(timeRound))
}
