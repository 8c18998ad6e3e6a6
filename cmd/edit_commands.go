package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/bpkit/internal/blueprint"
)

func newUpgradeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade [FILE|-]",
		Short: "Raise the quality of every configured signal, filter and recipe by one rung",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := a.readDocument(optionalArg(args, 0))
			if err != nil {
				return err
			}
			if err := blueprint.UpgradeQuality(&doc); err != nil {
				return err
			}
			return a.writeWire(cmd, doc)
		},
	}
}

func newTagCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tag KEY VALUE [FILE|-]",
		Short: `Set a "KEY: VALUE" line in the description`,
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, entry, err := a.readDocument(optionalArg(args, 2))
			if err != nil {
				return err
			}
			if err := entry.SetTagInDescription(args[0], args[1]); err != nil {
				return err
			}
			return a.writeWire(cmd, doc)
		},
	}
}
