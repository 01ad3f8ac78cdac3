package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/KrishalDhungana/NBAMind/internal/contract"
)

// writeTo resolves the destination (stdout unless a file is configured),
// runs the render function against it, and notes where results landed.
func writeTo(outputFile string, render func(io.Writer) error) error {
	out, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if out == os.Stdout {
		return render(out)
	}
	defer func() { _ = out.Close() }()

	if err := render(out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Results saved to %s\n", outputFile)
	return nil
}

// writeJSON renders data as indented JSON.
func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// writeCSV writes a header row followed by the materialized data rows.
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// floatFormatter returns a fixed-precision renderer for numeric columns.
func floatFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
}
