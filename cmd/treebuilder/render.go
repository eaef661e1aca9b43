package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/treebuilder/internal/config"
	"github.com/vango-dev/treebuilder/internal/errors"
	"github.com/vango-dev/treebuilder/pkg/script"
)

func renderCmd(g *globals) *cobra.Command {
	var (
		backend backendValue
		pretty  bool
		out     string
		upload  string
	)

	cmd := &cobra.Command{
		Use:   "render [script]",
		Short: "Run a call script through a builder backend",
		Long: `Run a YAML call script through the stream or dom backend.

The script is a list of operations:

  - open: div
  - attr: class
    value: note
  - text: "a < b"
  - close

With no argument, or "-", the script is read from stdin.`,
		Example: `  treebuilder render page.yaml
  treebuilder render page.yaml --backend dom --pretty
  treebuilder render page.yaml --out s3://site/index.html
  cat page.yaml | treebuilder render --upload index.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readScript(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			if pretty && backend.resolve(g.cfg) == config.BackendStream {
				g.ui.Warn("--pretty only applies to the dom backend")
			}

			ctx := cmd.Context()
			dest, err := openOutput(ctx, g.cfg, cmd.OutOrStdout(), out, upload)
			if err != nil {
				return err
			}

			err = build(ctx, dest, backend.resolve(g.cfg), pretty || g.cfg.Pretty, s.Run)
			if err := dest.finish(err); err != nil {
				return err
			}
			if dest.desc != "" {
				g.ui.Success("Rendered %s", dest.desc)
				g.ui.Info("%d operations", len(s.Ops))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addBackendFlag(flags, &backend)
	flags.BoolVar(&pretty, "pretty", false, "Indent output (dom backend only)")
	flags.StringVarP(&out, "out", "o", "", "Output file or s3://bucket/key (default: stdout)")
	flags.StringVar(&upload, "upload", "", "Upload as NAME under the configured storage bucket and prefix")
	return cmd
}

// readScript parses the script named by args, or stdin.
func readScript(stdin io.Reader, args []string) (*script.Script, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.New("T020").WithDetail("Cannot read script from stdin").Wrap(err)
		}
		return script.Parse("<stdin>", data)
	}
	return script.ParseFile(args[0])
}

// readSource reads the file named by args, or stdin.
func readSource(stdin io.Reader, args []string) (name string, data []byte, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
		return "<stdin>", data, err
	}
	data, err = os.ReadFile(args[0])
	return args[0], data, err
}
