package outwriter

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// WriteSpaceResults outputs a fitted component space, dispatching based
// on the output format configured.
func WriteSpaceResults(space *schema.ComponentSpace, records int, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"space_id":       space.SpaceID,
				"features":       len(space.FeatureNames),
				"components":     space.Retained(),
				"records":        records,
				"explained":      space.Explained,
				"total_variance": space.TotalVariance,
			})
		})
	case schema.CSVOut:
		header := []string{"component", "explained_variance", "explained_ratio", "cumulative_ratio", "top_feature"}
		rows := make([][]string, 0, len(space.Explained))
		cumulative := 0.0
		for i, v := range space.Explained {
			ratio := 0.0
			if space.TotalVariance > 0 {
				ratio = v / space.TotalVariance
			}
			cumulative += ratio
			rows = append(rows, []string{
				strconv.Itoa(i),
				fmtFloat(v),
				fmtFloat(ratio),
				fmtFloat(cumulative),
				topLoadingFeature(space, i),
			})
		}
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, header, rows)
		})
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for fit summaries; coordinates are written under the data directory")
	default:
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeSpaceTable(space, records, fmtFloat, duration, w)
		})
	}
}

// writeSpaceTable generates and writes the human-readable table.
func writeSpaceTable(space *schema.ComponentSpace, records int, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Component", "Variance", "Ratio", "Cumulative", "Top Features"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	cumulative := 0.0
	for i, v := range space.Explained {
		ratio := 0.0
		if space.TotalVariance > 0 {
			ratio = v / space.TotalVariance
		}
		cumulative += ratio
		data = append(data, []string{
			strconv.Itoa(i),
			fmtFloat(v),
			fmtFloat(ratio),
			fmtFloat(cumulative),
			topLoadingFeatures(space, i, 3),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Space %s: %d features reduced to %d components over %d records\n",
		space.SpaceID, len(space.FeatureNames), space.Retained(), records); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Fit completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// topLoadingFeature names the feature with the largest absolute loading
// on a component.
func topLoadingFeature(space *schema.ComponentSpace, component int) string {
	return topLoadingFeatures(space, component, 1)
}

// topLoadingFeatures names the n features with the largest absolute
// loadings on a component, signed.
func topLoadingFeatures(space *schema.ComponentSpace, component, n int) string {
	if component >= len(space.Loadings) {
		return ""
	}
	row := space.Loadings[component]
	idx := make([]int, len(row))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return math.Abs(row[idx[a]]) > math.Abs(row[idx[b]])
	})
	if n > len(idx) {
		n = len(idx)
	}
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ", "
		}
		sign := "+"
		if row[idx[i]] < 0 {
			sign = "-"
		}
		out += sign + space.FeatureNames[idx[i]]
	}
	return out
}
