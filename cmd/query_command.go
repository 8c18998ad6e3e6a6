package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/bpkit/internal/query"
)

func newQueryCommand(a *app) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "query EXPR [FILE|-]",
		Short: "Print the parts of a blueprint matched by a JSONPath expression",
		Example: `  bpkit query '$..entities[*].name' station.txt
  bpkit query '$.blueprint_book.blueprints[*].blueprint.label' --clipboard`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := query.Compile(args[0])
			if err != nil {
				return err
			}
			doc, _, err := a.readDocument(optionalArg(args, 1))
			if err != nil {
				return err
			}
			matches, err := sel.Query(&doc)
			if err != nil {
				return err
			}
			a.logger.Debug("query", zap.Stringer("expr", sel), zap.Int("matches", len(matches)))
			for _, m := range matches {
				if err := printJSON(cmd, m, compact, a.indent()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "Print each match on a single line")
	return cmd
}
