// Package progress provides progress reporting functionality
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reporter receives human-facing progress for a batch of downloads.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Start(message string)
	Step(message string)
	Warn(message string)
	Error(message string)
	Success(message string)
	End()
}

// ConsoleReporter prints plain lines, one per event.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stderr}
}

func (r *ConsoleReporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

func (r *ConsoleReporter) Start(message string)   { r.printf("%s...\n", message) }
func (r *ConsoleReporter) Step(message string)    { r.printf("  > %s\n", message) }
func (r *ConsoleReporter) Warn(message string)    { r.printf("  ! %s\n", message) }
func (r *ConsoleReporter) Error(message string)   { r.printf("  x %s\n", message) }
func (r *ConsoleReporter) Success(message string) { r.printf("  ok %s\n", message) }
func (r *ConsoleReporter) End()                   {}

// NopReporter implements Reporter with no-op operations
type NopReporter struct{}

func NewNopReporter() *NopReporter {
	return &NopReporter{}
}

func (r *NopReporter) Start(message string)   {}
func (r *NopReporter) Step(message string)    {}
func (r *NopReporter) Warn(message string)    {}
func (r *NopReporter) Error(message string)   {}
func (r *NopReporter) Success(message string) {}
func (r *NopReporter) End()                   {}
