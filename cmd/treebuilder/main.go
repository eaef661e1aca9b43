package main

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/vango-dev/treebuilder/internal/config"
	"github.com/vango-dev/treebuilder/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds the state shared by all commands.
type globals struct {
	configDir string
	logLevel  string
	noColor   bool

	cfg *config.Config
	ui  *ui
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	g := &globals{}
	rootCmd := newRootCmd(g)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(g *globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treebuilder",
		Short: "Build HTML trees by streaming or materializing them",
		Long: `treebuilder drives an HTML tree builder from call scripts or Markdown.

Two interchangeable backends are available:

  • stream  writes HTML text as the calls arrive
  • dom     builds a node tree first, then serializes it

Output goes to stdout, a file, or an S3 object. The serve command
exposes the same rendering over HTTP and WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup()
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Newf(errors.CategoryCLI, "%v", err).
			WithSuggestion("Run '" + cmd.CommandPath() + " --help' for usage")
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configDir, "config", "c", ".", "Directory containing "+config.ConfigFileName)
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(
		renderCmd(g),
		markdownCmd(g),
		serveCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// setup loads configuration and installs the default logger.
func (g *globals) setup() error {
	cfg, err := config.LoadOrDefault(g.configDir)
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	g.cfg = cfg

	color := !g.noColor && isTerminal(os.Stderr)
	if !color {
		errors.DisableColors()
	}
	g.ui = newUI(os.Stderr, color)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "treebuilder",
	})
	logger.SetLevel(parseLevel(cfg.Log.Level))
	slog.SetDefault(slog.New(logger))
	return nil
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
