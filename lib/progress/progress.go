// Package progress provides utility functions for progress calculation and tracking.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/cheggaaa/pb/v3"
	getter "github.com/hashicorp/go-getter"
)

const (
	percentageMultiplier = 100 // Multiplier to convert decimal to percentage
	counterTemplate      = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }}`
)

// Output is where progress bars are drawn. A nil Output disables them.
var Output io.Writer = os.Stderr //nolint:gochecknoglobals // Shared progress output

// CalculatePercentage calculates the percentage of a given value relative to a total, formatted to two decimal places.
// It returns "0.00%" if the total is zero to prevent division by zero errors.
func CalculatePercentage(value, total float64) string {
	if total == 0 {
		return "0.00%"
	}

	percentage := (value / total) * percentageMultiplier

	return fmt.Sprintf("%.2f%%", percentage)
}

// Counter tracks a fixed number of steps, such as pages of a crawl.
type Counter struct {
	bar   *pb.ProgressBar
	done  int
	total int
}

// NewCounter starts a counter of total steps labelled with prefix.
func NewCounter(prefix string, total int) *Counter {
	c := &Counter{total: total}

	if Output != nil && total > 0 {
		c.bar = pb.New(total)
		c.bar.SetWriter(Output)
		c.bar.SetTemplateString(counterTemplate)
		c.bar.Set("prefix", prefix)
		c.bar.Start()
	}

	return c
}

// Increment records one finished step.
func (c *Counter) Increment() {
	c.done++

	if c.bar != nil {
		c.bar.Increment()
	}
}

// Percentage returns the finished share of the steps.
func (c *Counter) Percentage() string {
	return CalculatePercentage(float64(c.done), float64(c.total))
}

// Done returns the number of finished steps.
func (c *Counter) Done() int {
	return c.done
}

// Finish stops drawing the counter.
func (c *Counter) Finish() {
	if c.bar != nil {
		c.bar.Finish()
	}
}

// DefaultProgressBar draws download progress for go-getter.
var DefaultProgressBar getter.ProgressTracker = &progressBar{} //nolint:gochecknoglobals // Shared download tracker

// progressBar draws one pb bar per tracked download stream.
type progressBar struct {
	lock   sync.Mutex
	active int
}

// TrackProgress instantiates a new progress bar that will
// display the progress of stream until closed.
// totalSize can be 0.
func (p *progressBar) TrackProgress(src string, currentSize, totalSize int64, stream io.ReadCloser) io.ReadCloser {
	if Output == nil {
		return stream
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	bar := pb.New64(totalSize)
	bar.SetCurrent(currentSize)
	bar.SetWriter(Output)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", filepath.Base(src))
	bar.SetTemplate(pb.Full)
	bar.Start()

	p.active++

	return &readCloser{
		Reader: bar.NewProxyReader(stream),
		close: func() error {
			p.lock.Lock()
			defer p.lock.Unlock()

			bar.Finish()
			p.active--

			return stream.Close()
		},
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (c *readCloser) Close() error { return c.close() }
