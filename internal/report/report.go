package report

import (
	"bufio"
	"fmt"
	"github.com/litetable/groupcount/internal/tally"
	"io"
)

const header = "Groups found:"

// Write prints the group summary to w: a fixed header line followed by one line per entry, in the
// order given.
func Write(w io.Writer, entries []tally.Entry) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, header); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "- %s: %d fields\n", e.Group, e.Count); err != nil {
			return err
		}
	}

	return bw.Flush()
}
