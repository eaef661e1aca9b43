package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"
	"github.com/vango-dev/treebuilder/internal/config"
	"github.com/vango-dev/treebuilder/pkg/dom"
	"github.com/vango-dev/treebuilder/pkg/render"
	"github.com/vango-dev/treebuilder/pkg/stream"
	"github.com/vango-dev/treebuilder/pkg/tree"
)

// backendValue is a pflag.Value accepting "stream" or "dom".
type backendValue string

var _ pflag.Value = (*backendValue)(nil)

func (b *backendValue) String() string { return string(*b) }

func (b *backendValue) Set(s string) error {
	switch s {
	case config.BackendStream, config.BackendDOM:
		*b = backendValue(s)
		return nil
	}
	return fmt.Errorf("unknown backend %q: want %q or %q", s, config.BackendStream, config.BackendDOM)
}

func (b *backendValue) Type() string { return "backend" }

// addBackendFlag registers --backend; an empty value means "use config".
func addBackendFlag(flags *pflag.FlagSet, b *backendValue) {
	flags.VarP(b, "backend", "b", "Builder backend: stream or dom (default from config)")
}

// resolve returns the flag value or the configured default.
func (b backendValue) resolve(cfg *config.Config) string {
	if b != "" {
		return string(b)
	}
	return cfg.Backend
}

// build runs drive on a fresh session of the named backend and writes the
// HTML to w.
func build(ctx context.Context, w io.Writer, backend string, pretty bool, drive func(tree.Builder) error) error {
	switch backend {
	case config.BackendDOM:
		t := dom.New()
		if err := drive(t); err != nil {
			return err
		}
		frag, err := t.Fragment()
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return render.NewRenderer(render.RendererConfig{Pretty: pretty}).RenderChildren(w, frag)

	default:
		if pretty {
			slog.Debug("pretty output ignored by the stream backend")
		}
		return drive(stream.New(w, stream.WithLogger(slog.Default())))
	}
}
