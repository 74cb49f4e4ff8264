// Package render draws region rows as a terminal table or as structured output.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"
)

// Table is the render target of the board: rows are replaced wholesale on
// every update and written out on Draw.
type Table interface {
	Clear()
	AddRows(rows ...[]string)
	Draw() error
}

// Supported formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
)

// Color modes for FormatTable.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// New builds the table for format writing to w.
func New(format string, w io.Writer, columns []string, colorMode string) (Table, error) {
	if w == nil {
		return nil, fmt.Errorf("render: writer must not be nil")
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("render: at least one column is required")
	}
	base := rowSet{columns: append([]string(nil), columns...)}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTable:
		return &terminalTable{rowSet: base, w: w, color: useColor(colorMode, w)}, nil
	case FormatJSON:
		return &jsonTable{rowSet: base, w: w}, nil
	case FormatYAML:
		return &yamlTable{rowSet: base, w: w}, nil
	case FormatCSV:
		return &csvTable{rowSet: base, w: w}, nil
	default:
		return nil, fmt.Errorf("render: unsupported format %q", format)
	}
}

// rowSet is the state shared by every table kind.
type rowSet struct {
	columns []string
	rows    [][]string
}

func (r *rowSet) Clear() {
	r.rows = nil
}

// AddRows appends copies of rows, padded or cut to the column count.
func (r *rowSet) AddRows(rows ...[]string) {
	for _, row := range rows {
		cells := make([]string, len(r.columns))
		copy(cells, row)
		r.rows = append(r.rows, cells)
	}
}

func useColor(mode string, w io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ColorAlways:
		color.ForceColor()
		return true
	case ColorNever:
		return false
	default:
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
}
