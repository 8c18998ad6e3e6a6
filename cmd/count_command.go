package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/agentic-research/bpkit/api"
	"github.com/agentic-research/bpkit/internal/blueprint"
)

func newCountCommand(a *app) *cobra.Command {
	var (
		asJSON      bool
		toBlueprint bool
	)

	cmd := &cobra.Command{
		Use:   "count [FILE|-]",
		Short: "Count the items needed to build a blueprint or book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && toBlueprint {
				return fmt.Errorf("--json and --to-blueprint are mutually exclusive")
			}
			doc, entry, err := a.readDocument(optionalArg(args, 0))
			if err != nil {
				return err
			}
			counts, err := blueprint.Count(&doc)
			if err != nil {
				return err
			}
			label, _ := entry.Label()
			report := api.CountReport{Label: label, Total: counts.Total(), Rows: counts.Sorted()}

			out := cmd.OutOrStdout()
			switch {
			case toBlueprint:
				combinator, err := blueprint.ConstantCombinator(report.Rows)
				if err != nil {
					return err
				}
				return a.writeWire(cmd, combinator)
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", a.indent())
				return enc.Encode(report)
			default:
				_, err = fmt.Fprintln(out, renderCounts(report))
				return err
			}
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the counts as JSON")
	cmd.Flags().BoolVar(&toBlueprint, "to-blueprint", false, "Print a constant combinator blueprint emitting the counts")
	return cmd
}

func renderCounts(report api.CountReport) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if report.Label != "" {
		tw.SetTitle(report.Label)
	}
	tw.AppendHeader(table.Row{"Item", "Quality", "Count"})
	for _, row := range report.Rows {
		quality := row.Quality
		if quality == "" {
			quality = blueprint.QualityNormal
		}
		tw.AppendRow(table.Row{row.Name, quality, strconv.FormatUint(row.Count, 10)})
	}
	tw.AppendFooter(table.Row{"Total", "", strconv.FormatUint(report.Total, 10)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
