package progress

import (
	"fmt"
	"io"

	"github.com/WS-QA/OSSGadget/util/common"

	"github.com/pterm/pterm"
)

type BarWriter struct {
	bar *pterm.ProgressbarPrinter
}

func (w *BarWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.bar.Add(n)
	return n, nil
}

// Reader wraps reader so every byte read advances a pterm progress bar
// titled with name and the expected size. Call the returned func when done.
func Reader(contentLength int64, reader io.Reader, name string) (io.Reader, func()) {
	title := name
	if contentLength > 0 {
		title = fmt.Sprintf("%s (%s)", name, common.GetSize(contentLength))
	}
	bar := pterm.DefaultProgressbar.
		WithTitle(title).WithRemoveWhenDone(true)

	if contentLength > 0 {
		bar = bar.WithTotal(int(contentLength))
	}

	pb, err := bar.Start()
	if err != nil {
		return reader, func() {}
	}

	r := io.TeeReader(reader, &BarWriter{pb})
	return r, func() { _, _ = pb.Stop() }
}
