package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/bpkit/internal/prompt"
	"github.com/agentic-research/bpkit/internal/value"
)

func newDecodeCommand(a *app) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "decode [FILE|-]",
		Short: "Print the JSON held by a blueprint string",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := a.readDocument(optionalArg(args, 0))
			if err != nil {
				return err
			}
			return printJSON(cmd, doc, compact, a.indent())
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on a single line")
	return cmd
}

func newEncodeCommand(a *app) *cobra.Command {
	var copyOut bool

	cmd := &cobra.Command{
		Use:   "encode [FILE|-]",
		Short: "Turn blueprint JSON into a blueprint string",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.input.Read(optionalArg(args, 0), a.clipboard, "Paste blueprint JSON")
			if err != nil {
				return err
			}
			doc, err := value.Parse(text)
			if err != nil {
				return err
			}
			enc, err := a.encoder()
			if err != nil {
				return err
			}
			wire, err := enc.EncodeValue(doc)
			if err != nil {
				return err
			}
			if copyOut {
				if err := prompt.Copy(wire); err != nil {
					return err
				}
				a.logger.Info("copied blueprint string to clipboard", zap.Int("bytes", len(wire)))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), wire)
			return err
		},
	}
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Also put the blueprint string on the clipboard")
	return cmd
}

func printJSON(cmd *cobra.Command, doc value.Value, compact bool, indent string) error {
	var (
		out []byte
		err error
	)
	if compact {
		out, err = doc.MarshalJSON()
	} else {
		out, err = doc.MarshalIndent("", indent)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
