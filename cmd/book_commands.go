package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/bpkit/internal/book"
)

func newSaveCommand(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "save [FILE|-]",
		Short: "Unpack a blueprint string into files",
		Long: `Save writes a blueprint, planner or book to disk. Books become a
directory holding book.json and one entry per child; everything else
becomes a single JSON file. Existing files are never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := a.readDocument(optionalArg(args, 0))
			if err != nil {
				return err
			}

			dir := outDir
			if dir == "" {
				dir = a.cfg.Save.OutDir
			}
			dir, err = absPath(dir)
			if err != nil {
				return err
			}

			asm := book.NewAssembler(a.fs, a.logger)
			asm.Indent = a.indent()
			path, err := asm.Save(doc, dir)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to save into (defaults to save.out_dir)")
	return cmd
}

func newLoadCommand(a *app) *cobra.Command {
	var (
		asJSON  bool
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "load PATH",
		Short: "Assemble a saved file or book directory into a blueprint string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			doc, err := book.NewLoader(a.fs, a.logger).Load(path)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, doc, compact, a.indent())
			}
			return a.writeWire(cmd, doc)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the assembled JSON instead of a blueprint string")
	cmd.Flags().BoolVar(&compact, "compact", false, "With --json, print on a single line")
	return cmd
}
