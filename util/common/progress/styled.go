package progress

import (
	"fmt"
	"os"
	"sync"

	"github.com/WS-QA/OSSGadget/internal/style"

	"golang.org/x/term"
)

// StyledReporter writes themed lines to stderr.
type StyledReporter struct {
	mu sync.Mutex
}

func NewStyledReporter() *StyledReporter {
	return &StyledReporter{}
}

// NewAutoReporter picks the StyledReporter for a colour terminal on stderr
// and the ConsoleReporter otherwise.
func NewAutoReporter() Reporter {
	if term.IsTerminal(int(os.Stderr.Fd())) && style.Enabled {
		return NewStyledReporter()
	}
	return NewConsoleReporter()
}

func (r *StyledReporter) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(os.Stderr, s)
}

func (r *StyledReporter) Start(message string) {
	r.println(style.Title.Render(message + "..."))
}

func (r *StyledReporter) Step(message string) {
	r.println("  " + style.Hint(message))
}

func (r *StyledReporter) Warn(message string) {
	r.println("  " + style.WarningIcon() + " " + style.Warning.Render(message))
}

func (r *StyledReporter) Error(message string) {
	r.println("  " + style.ErrorIcon() + " " + message)
}

func (r *StyledReporter) Success(message string) {
	r.println("  " + style.SuccessIcon() + " " + style.Code.Render(message))
}

func (r *StyledReporter) End() {}
