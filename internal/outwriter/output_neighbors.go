package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/internal/parquet"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// WriteNeighborResults outputs a similarity query's nearest neighbors,
// dispatching based on the output format configured.
func WriteNeighborResults(queryName string, querySeason schema.SeasonID, neighbors []schema.Neighbor, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeNeighborJSONResults(queryName, querySeason, neighbors, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeNeighborCSVResults(neighbors, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		if err := parquet.WriteNeighbors(neighbors, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeNeighborTable(queryName, querySeason, neighbors, cfg, fmtFloat, duration, w)
		})
	}
	return nil
}

// writeNeighborTable generates and writes the human-readable table.
func writeNeighborTable(queryName string, querySeason schema.SeasonID, neighbors []schema.Neighbor, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Player", "Season", "Team", "Similarity", "Label", "Archetype"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for i, n := range neighbors {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(n.PlayerName, nameWidth),
			n.Key.Season.String(),
			n.Key.TeamStint,
			fmtFloat(n.Similarity),
			contract.GetColorLabel(n.Similarity),
			n.Archetype,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Top %d matches for %s (%s), metric: %s\n", len(neighbors), queryName, querySeason, cfg.Metric); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Query completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeNeighborCSVResults writes the neighbor list in CSV format.
func writeNeighborCSVResults(neighbors []schema.Neighbor, cfg *contract.Config, fmtFloat func(float64) string) error {
	header := []string{"rank", "player_id", "player", "season", "team", "distance", "similarity", "label", "archetype"}
	rows := make([][]string, 0, len(neighbors))
	for i, n := range neighbors {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			n.Key.PlayerID,
			n.PlayerName,
			n.Key.Season.String(),
			n.Key.TeamStint,
			fmtFloat(n.Distance),
			fmtFloat(n.Similarity),
			contract.GetPlainLabel(n.Similarity),
			n.Archetype,
		})
	}
	return writeTo(cfg.OutputFile, func(w io.Writer) error {
		return writeCSV(w, header, rows)
	})
}

// writeNeighborJSONResults writes the neighbor list in JSON format.
func writeNeighborJSONResults(queryName string, querySeason schema.SeasonID, neighbors []schema.Neighbor, cfg *contract.Config) error {
	type JSONNeighbor struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.Neighbor
	}
	type JSONNeighborResult struct {
		Query     string         `json:"query"`
		Season    string         `json:"season"`
		Metric    string         `json:"metric"`
		Neighbors []JSONNeighbor `json:"neighbors"`
	}

	out := JSONNeighborResult{
		Query:     queryName,
		Season:    querySeason.String(),
		Metric:    string(cfg.Metric),
		Neighbors: make([]JSONNeighbor, len(neighbors)),
	}
	for i, n := range neighbors {
		out.Neighbors[i] = JSONNeighbor{
			Rank:     i + 1,
			Label:    contract.GetPlainLabel(n.Similarity),
			Neighbor: n,
		}
	}

	return writeTo(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, out)
	})
}
