package main

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/treebuilder/internal/config"
	"github.com/vango-dev/treebuilder/internal/errors"
	"github.com/vango-dev/treebuilder/pkg/markdown"
	"github.com/vango-dev/treebuilder/pkg/render"
	"github.com/vango-dev/treebuilder/pkg/script"
	"github.com/vango-dev/treebuilder/pkg/tree"
)

func markdownCmd(g *globals) *cobra.Command {
	var (
		backend    backendValue
		pretty     bool
		flavor     string
		unsafe     bool
		page       bool
		title      string
		out        string
		upload     string
		emitScript bool
	)

	cmd := &cobra.Command{
		Use:     "markdown [file]",
		Aliases: []string{"md"},
		Short:   "Render Markdown through a builder backend",
		Long: `Render a Markdown document through the stream or dom backend.

With --page the content is wrapped in a complete HTML document whose
title defaults to the first heading. With --emit-script the builder
calls are written as a call script instead of HTML, ready for
"treebuilder render".`,
		Example: `  treebuilder markdown README.md
  treebuilder markdown README.md --page --out readme.html
  treebuilder markdown notes.md --flavor commonmark --emit-script > notes.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return errors.New("T040").WithDetail("Cannot read " + name).Wrap(err)
			}

			if pretty && backend.resolve(g.cfg) == config.BackendStream {
				g.ui.Warn("--pretty only applies to the dom backend")
			}

			ctx := cmd.Context()
			md := markdown.New(markdown.WithFlavor(flavor), markdown.WithUnsafe(unsafe))

			drive := func(b tree.Builder) error {
				content := func(b tree.Builder) error {
					if err := md.Render(ctx, b, source); err != nil {
						return errors.New("T040").WithDetail("Cannot render " + name).Wrap(err)
					}
					return nil
				}
				if page {
					t := title
					if t == "" {
						t = md.Title(source)
					}
					if t == "" {
						t = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
					}
					if err := render.Page(b, render.PageData{Title: t}, content); err != nil {
						return err
					}
				} else if err := content(b); err != nil {
					return err
				}
				return b.Finish()
			}

			if emitScript {
				rec := &script.Recorder{}
				if err := drive(rec); err != nil {
					return err
				}
				data, err := script.Encode(rec.Ops)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			dest, err := openOutput(ctx, g.cfg, cmd.OutOrStdout(), out, upload)
			if err != nil {
				return err
			}

			w := io.Writer(dest)
			if page {
				if _, err := io.WriteString(w, render.Doctype); err != nil {
					return dest.finish(errors.New("T010").Wrap(err))
				}
			}
			if err := dest.finish(build(ctx, w, backend.resolve(g.cfg), pretty || g.cfg.Pretty, drive)); err != nil {
				return err
			}
			if dest.desc != "" {
				g.ui.Success("Rendered %s to %s", name, dest.desc)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addBackendFlag(flags, &backend)
	flags.BoolVar(&pretty, "pretty", false, "Indent output (dom backend only)")
	flags.StringVar(&flavor, "flavor", markdown.FlavorGFM, "Markdown flavor: commonmark or gfm")
	flags.BoolVar(&unsafe, "unsafe", false, "Pass raw HTML in the source through unchanged")
	flags.BoolVar(&page, "page", false, "Wrap the output in a complete HTML document")
	flags.StringVar(&title, "title", "", "Document title for --page (default: first heading)")
	flags.StringVarP(&out, "out", "o", "", "Output file or s3://bucket/key (default: stdout)")
	flags.StringVar(&upload, "upload", "", "Upload as NAME under the configured storage bucket and prefix")
	flags.BoolVar(&emitScript, "emit-script", false, "Write the builder calls as a call script instead of HTML")
	return cmd
}
