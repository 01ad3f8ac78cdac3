package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// WriteSeasonResults outputs stat-family availability for a season
// window, dispatching based on the output format configured.
func WriteSeasonResults(contexts []schema.SeasonContext, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		type JSONSeason struct {
			Season          string `json:"season"`
			HasShotLocation bool   `json:"has_shot_location"`
			HasTracking     bool   `json:"has_tracking"`
		}
		out := make([]JSONSeason, len(contexts))
		for i, sc := range contexts {
			out[i] = JSONSeason{
				Season:          sc.Season.String(),
				HasShotLocation: sc.HasShotLocation,
				HasTracking:     sc.HasTracking,
			}
		}
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, out)
		})
	case schema.CSVOut:
		header := []string{"season", "has_shot_location", "has_tracking"}
		rows := make([][]string, 0, len(contexts))
		for _, sc := range contexts {
			rows = append(rows, []string{
				sc.Season.String(),
				strconv.FormatBool(sc.HasShotLocation),
				strconv.FormatBool(sc.HasTracking),
			})
		}
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, header, rows)
		})
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for season availability")
	default:
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeSeasonTable(contexts, w)
		})
	}
}

// writeSeasonTable generates and writes the human-readable table.
func writeSeasonTable(contexts []schema.SeasonContext, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Season", "Box", "Shot Location", "Tracking"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignCenter
	})

	var data [][]string
	for _, sc := range contexts {
		data = append(data, []string{
			sc.Season.String(),
			availabilityMark(true),
			availabilityMark(sc.HasShotLocation),
			availabilityMark(sc.HasTracking),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "%d seasons in window\n", len(contexts))
	return err
}

func availabilityMark(available bool) string {
	if available {
		return "yes"
	}
	return "-"
}
