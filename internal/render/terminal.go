package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gookit/color"
)

const emptyTableText = "No data available"

var headerStyle = color.Style{color.FgCyan, color.OpBold}

type terminalTable struct {
	rowSet
	w     io.Writer
	color bool
}

// Draw writes aligned columns. The header is colored after alignment so
// escape sequences do not skew column widths.
func (t *terminalTable) Draw() error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.columns, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	header, body, _ := strings.Cut(buf.String(), "\n")
	header = strings.TrimRight(header, " ")
	if t.color {
		header = headerStyle.Sprint(header)
	}

	var out strings.Builder
	out.WriteString(header)
	out.WriteString("\n")
	if len(t.rows) == 0 {
		out.WriteString(emptyTableText)
		out.WriteString("\n")
	} else {
		for _, line := range strings.SplitAfter(body, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(strings.TrimRight(line, " \n"))
			out.WriteString("\n")
		}
	}

	if _, err := io.WriteString(t.w, out.String()); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
