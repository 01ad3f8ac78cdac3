package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// WriteQualityResults outputs a feature-build quality report,
// dispatching based on the output format configured.
func WriteQualityResults(report *schema.QualityReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"records":         report.Records,
				"flagged_records": len(report.FlaggedRecords()),
				"counts":          report.Counts,
				"skipped_seasons": skippedSeasonStrings(report),
			})
		})
	case schema.CSVOut:
		header := []string{"flag", "count"}
		rows := make([][]string, 0, len(report.Counts))
		for _, kind := range sortedFlagKinds(report) {
			rows = append(rows, []string{string(kind), strconv.Itoa(report.Counts[kind])})
		}
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, header, rows)
		})
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for quality reports; stage tables are written under the data directory")
	default:
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeQualityTable(report, cfg, duration, w)
		})
	}
}

// writeQualityTable generates and writes the human-readable table.
func writeQualityTable(report *schema.QualityReport, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Flag", "Count"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, kind := range sortedFlagKinds(report) {
		data = append(data, []string{string(kind), fmt.Sprintf("%d", report.Counts[kind])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Built %d records, %d flagged\n", report.Records, len(report.FlaggedRecords())); err != nil {
		return err
	}
	if skipped := skippedSeasonStrings(report); len(skipped) > 0 {
		if _, err := fmt.Fprintf(writer, "Skipped seasons (no rotation population): %v\n", skipped); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Build completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

func sortedFlagKinds(report *schema.QualityReport) []schema.FlagKind {
	kinds := make([]schema.FlagKind, 0, len(report.Counts))
	for kind := range report.Counts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func skippedSeasonStrings(report *schema.QualityReport) []string {
	out := make([]string, 0, len(report.SkippedSeasons))
	for _, season := range report.SkippedSeasons {
		out = append(out, season.String())
	}
	sort.Strings(out)
	return out
}
