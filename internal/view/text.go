package view

import (
	"fmt"
	"io"
	"strings"
)

// WriteText writes the page as plain text for terminal output.
func WriteText(w io.Writer, p Page) error {
	var b strings.Builder

	if p.Empty != EmptyNone {
		fmt.Fprintln(&b, p.Empty.Message())
	}
	for _, item := range p.Items {
		mark := " "
		if item.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "[%s] %d  %s\n", mark, item.ID, item.Text)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, StatsLine(p.Stats))

	_, err := io.WriteString(w, b.String())
	return err
}

// StatsLine formats stats on one line.
func StatsLine(s Stats) string {
	return fmt.Sprintf("%d total, %d done, %d pending (%d%%)", s.Total, s.Done, s.Pending, s.Percent)
}
