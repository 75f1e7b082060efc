/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: export.go
Description: Renderers for generated rounds. Writes input and output tables as aligned
text, CSV or JSON, and single tables in the columnar Arrow and Parquet formats.
*/

package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/detective-solutions/QueryCollect/pkg/dataset"
	"github.com/detective-solutions/QueryCollect/pkg/operations"
	json "github.com/goccy/go-json"
)

// ErrUnsupportedFormat is returned for unknown output formats
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// MissingText is how missing cells are shown in text renderings
const MissingText = "NaN"

// Format is an output format
type Format string

const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatArrow   Format = "arrow"
	FormatParquet Format = "parquet"
)

// Formats lists every supported format
var Formats = []Format{FormatTable, FormatJSON, FormatCSV, FormatArrow, FormatParquet}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Columnar reports whether the format stores one table per file
func (f Format) Columnar() bool {
	return f == FormatArrow || f == FormatParquet
}

// Extension returns the file extension for the format
func (f Format) Extension() string {
	if f == FormatTable {
		return ".txt"
	}
	return "." + string(f)
}

// Render writes a whole round. Columnar formats hold a single table and are
// written per table with WriteTable.
func Render(w io.Writer, res *operations.Result, f Format) error {
	switch f {
	case FormatTable:
		return renderText(w, res)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatCSV:
		if err := writeCSV(w, res.InputTable); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return writeCSV(w, res.OutputTable)
	case FormatArrow, FormatParquet:
		return fmt.Errorf("%w: %s holds one table, write input and output separately", ErrUnsupportedFormat, f)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// WriteTable writes a single table in any format
func WriteTable(w io.Writer, t *dataset.Table, f Format) error {
	switch f {
	case FormatTable:
		return writeText(w, t)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t.Records())
	case FormatCSV:
		return writeCSV(w, t)
	case FormatArrow:
		return WriteArrow(w, t, nil)
	case FormatParquet:
		return WriteParquet(w, t, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// FormatCell renders one cell for display. Whole floats keep one decimal place.
func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return MissingText
	case string:
		return c
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		if c == math.Trunc(c) && !math.IsInf(c, 0) {
			return strconv.FormatFloat(c, 'f', 1, 64)
		}
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}

func renderText(w io.Writer, res *operations.Result) error {
	if _, err := fmt.Fprintf(w, "Operation: %s (%d)\n\nInput\n", res.Operation, res.ID); err != nil {
		return err
	}
	if err := writeText(w, res.InputTable); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nOutput\n"); err != nil {
		return err
	}
	return writeText(w, res.OutputTable)
}

func writeText(w io.Writer, t *dataset.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Names(), "\t"))
	for r := 0; r < t.RowCount(); r++ {
		row := t.Row(r)
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatCell(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// writeCSV writes a header and one record per row; missing cells are empty
func writeCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	for r := 0; r < t.RowCount(); r++ {
		row := t.Row(r)
		record := make([]string, len(row))
		for i, v := range row {
			if !dataset.IsMissing(v) {
				record[i] = FormatCell(v)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
