package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/bpkit/internal/blueprint"
	"github.com/agentic-research/bpkit/internal/codec"
	"github.com/agentic-research/bpkit/internal/config"
	"github.com/agentic-research/bpkit/internal/logging"
	"github.com/agentic-research/bpkit/internal/prompt"
	"github.com/agentic-research/bpkit/internal/value"
)

const skipConfigAnnotation = "skipConfigLoad"

// app holds state shared by every command of one invocation.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	clipboard  bool

	cfg    *config.Config
	logger *zap.Logger
	input  *prompt.Input
	fs     billy.Filesystem
}

func newRootCommand(stdin io.Reader) *cobra.Command {
	a := &app{
		input:  prompt.New(stdin),
		fs:     osfs.New("/"),
		logger: zap.NewNop(),
	}

	rootCmd := &cobra.Command{
		Use:   "bpkit",
		Short: "Decode, edit and unpack Factorio blueprint strings",
		Long: `bpkit converts Factorio blueprint strings to JSON and back, and saves
blueprint books as a directory tree that can be edited and versioned.

Commands that take an optional FILE read the blueprint string from it,
from standard input when FILE is "-" or input is piped, from the clipboard
with --clipboard, or prompt for it otherwise.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Configuration file path")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (console, json)")
	flags.BoolVar(&a.clipboard, "clipboard", false, "Read the blueprint string from the clipboard")

	rootCmd.AddCommand(
		newDecodeCommand(a),
		newEncodeCommand(a),
		newSaveCommand(a),
		newLoadCommand(a),
		newCountCommand(a),
		newUpgradeCommand(a),
		newTagCommand(a),
		newQueryCommand(a),
		newConfigCommand(a),
	)
	return rootCmd
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, path, exists, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(a.logLevel)
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = strings.ToLower(a.logFormat)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded", zap.String("path", path), zap.Bool("exists", exists))
	return nil
}

// readWire returns the blueprint string selected by arg.
func (a *app) readWire(arg string) (string, error) {
	return a.input.Read(arg, a.clipboard, "Paste a blueprint string")
}

// readDocument reads and decodes a blueprint string into a classified
// document.
func (a *app) readDocument(arg string) (value.Value, blueprint.Entry, error) {
	wire, err := a.readWire(arg)
	if err != nil {
		return value.Value{}, blueprint.Entry{}, err
	}
	doc, err := codec.DecodeValue(wire)
	if err != nil {
		return value.Value{}, blueprint.Entry{}, err
	}
	entry, err := blueprint.Classify(&doc)
	if err != nil {
		return value.Value{}, blueprint.Entry{}, err
	}
	a.logger.Debug("decoded", zap.String("kind", string(entry.Kind)), zap.String("name", entry.Name()))
	return doc, entry, nil
}

func (a *app) encoder() (*codec.Encoder, error) {
	return codec.NewEncoder(a.cfg.Codec.CompressionLevel)
}

// writeWire prints doc as a blueprint string.
func (a *app) writeWire(cmd *cobra.Command, doc value.Value) error {
	enc, err := a.encoder()
	if err != nil {
		return err
	}
	wire, err := enc.EncodeValue(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), wire)
	return err
}

func (a *app) indent() string {
	return a.cfg.IndentString()
}

// absPath makes path absolute so it can be used against the root file
// system.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// Execute runs the root command.
func Execute() {
	if err := newRootCommand(os.Stdin).Execute(); err != nil {
		os.Exit(1)
	}
}
