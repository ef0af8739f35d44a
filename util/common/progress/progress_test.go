package progress

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &ConsoleReporter{out: &buf}

	r.Start("Downloading 2 package(s)")
	r.Step("pkg:npm/left-pad@1.3.0")
	r.Success("pkg:npm/left-pad@1.3.0 -> ./npm-left-pad@1.3.0")
	r.Error("pkg:npm/absent: not found")
	r.Warn("pkg:npm/left-pad@9.*: no matching version")
	r.End()

	assert.Equal(t, "Downloading 2 package(s)...\n"+
		"  > pkg:npm/left-pad@1.3.0\n"+
		"  ok pkg:npm/left-pad@1.3.0 -> ./npm-left-pad@1.3.0\n"+
		"  x pkg:npm/absent: not found\n"+
		"  ! pkg:npm/left-pad@9.*: no matching version\n", buf.String())
}

func TestConsoleReporterConcurrentLines(t *testing.T) {
	var buf bytes.Buffer
	r := &ConsoleReporter{out: &buf}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Step("line")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 20)
	for _, l := range lines {
		assert.Equal(t, "  > line", l)
	}
}

func TestReaderPassesBytesThrough(t *testing.T) {
	r, done := Reader(11, strings.NewReader("hello world"), "pkg.tgz")
	data, err := io.ReadAll(r)
	done()
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}
