package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// ArchetypeSummary is the per-component view of a fitted mixture model:
// its mixing weight plus how many player-seasons land on it as their
// best assignment.
type ArchetypeSummary struct {
	Component  int      `json:"component"`
	Label      string   `json:"label"`
	Weight     float64  `json:"weight"`
	Members    int      `json:"members"`
	Exemplars  []string `json:"exemplars,omitempty"`
	Confidence float64  `json:"mean_confidence"`
}

// SummarizeArchetypes folds assignments into per-component summaries,
// picking the highest-confidence member names as exemplars.
func SummarizeArchetypes(model *schema.ArchetypeModel, assignments []*schema.Assignment, names map[schema.PlayerSeasonKey]string, exemplarCount int) []ArchetypeSummary {
	summaries := make([]ArchetypeSummary, model.K)
	members := make([][]*schema.Assignment, model.K)
	for i := range summaries {
		summaries[i] = ArchetypeSummary{Component: i, Label: model.LabelFor(i), Weight: model.Weights[i]}
	}
	for _, a := range assignments {
		if a.Best < 0 || a.Best >= model.K {
			continue
		}
		members[a.Best] = append(members[a.Best], a)
	}
	for i := range summaries {
		group := members[i]
		summaries[i].Members = len(group)
		if len(group) == 0 {
			continue
		}
		var total float64
		for _, a := range group {
			total += a.Confidence
		}
		summaries[i].Confidence = total / float64(len(group))

		sort.Slice(group, func(x, y int) bool {
			if group[x].Confidence != group[y].Confidence {
				return group[x].Confidence > group[y].Confidence
			}
			return group[x].Key.String() < group[y].Key.String()
		})
		for _, a := range group {
			if len(summaries[i].Exemplars) >= exemplarCount {
				break
			}
			name := names[a.Key]
			if name == "" {
				name = a.Key.String()
			}
			summaries[i].Exemplars = append(summaries[i].Exemplars, fmt.Sprintf("%s (%s)", name, a.Key.Season))
		}
	}
	return summaries
}

// WriteArchetypeResults outputs the mixture model summary, dispatching
// based on the output format configured.
func WriteArchetypeResults(model *schema.ArchetypeModel, summaries []ArchetypeSummary, cfg *contract.Config) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"model_id":       model.ModelID,
				"space_id":       model.SpaceID,
				"k":              model.K,
				"seed":           model.Seed,
				"log_likelihood": model.LogLikelihood,
				"bic":            model.BIC,
				"archetypes":     summaries,
			})
		})
	case schema.CSVOut:
		header := []string{"component", "label", "weight", "members", "mean_confidence"}
		rows := make([][]string, 0, len(summaries))
		for _, s := range summaries {
			rows = append(rows, []string{
				strconv.Itoa(s.Component),
				s.Label,
				fmtFloat(s.Weight),
				strconv.Itoa(s.Members),
				fmtFloat(s.Confidence),
			})
		}
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, header, rows)
		})
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for archetype summaries; assignments are written under the data directory")
	default:
		return writeTo(cfg.OutputFile, func(w io.Writer) error {
			return writeArchetypeTable(model, summaries, fmtFloat, w)
		})
	}
}

// writeArchetypeTable generates and writes the human-readable table.
func writeArchetypeTable(model *schema.ArchetypeModel, summaries []ArchetypeSummary, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Component", "Label", "Weight", "Members", "Confidence", "Exemplars"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range summaries {
		exemplars := ""
		for i, e := range s.Exemplars {
			if i > 0 {
				exemplars += ", "
			}
			exemplars += e
		}
		data = append(data, []string{
			strconv.Itoa(s.Component),
			s.Label,
			fmtFloat(s.Weight),
			strconv.Itoa(s.Members),
			fmtFloat(s.Confidence),
			exemplars,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Model %s: %d components, BIC %s, log-likelihood %s\n",
		model.ModelID, model.K, fmtFloat(model.BIC), fmtFloat(model.LogLikelihood)); err != nil {
		return err
	}
	return nil
}
