package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/vango-dev/treebuilder/internal/errors"
	"github.com/vango-dev/treebuilder/pkg/dom"
	"github.com/vango-dev/treebuilder/pkg/instrument"
	"github.com/vango-dev/treebuilder/pkg/render"
	"github.com/vango-dev/treebuilder/pkg/script"
	"github.com/vango-dev/treebuilder/pkg/sink"
	"github.com/vango-dev/treebuilder/pkg/stream"
	"github.com/vango-dev/treebuilder/pkg/tree"
)

// TrailerRenderError carries the error of a render that failed after the
// response started.
const TrailerRenderError = "X-Render-Error"

// driveFunc issues builder calls and finishes the session.
type driveFunc func(b tree.Builder) error

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	backend, ok := s.backend(w, r)
	if !ok {
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	sc, err := script.Parse("request", body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, backend, "", sc.Run)
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	backend, ok := s.backend(w, r)
	if !ok {
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	content := func(b tree.Builder) error {
		if err := s.markdown.Render(ctx, b, body); err != nil {
			return errors.New("T040").Wrap(err)
		}
		return nil
	}

	if page, _ := strconv.ParseBool(r.URL.Query().Get("page")); page {
		title := r.URL.Query().Get("title")
		if title == "" {
			title = s.markdown.Title(body)
		}
		data := render.PageData{Title: title}
		s.respond(w, r, backend, render.Doctype, func(b tree.Builder) error {
			if err := render.Page(b, data, content); err != nil {
				return err
			}
			return b.Finish()
		})
		return
	}

	s.respond(w, r, backend, "", func(b tree.Builder) error {
		if err := content(b); err != nil {
			return err
		}
		return b.Finish()
	})
}

// respond renders through the selected backend into the response.
// prefix is written before any builder output.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, backend, prefix string, drive driveFunc) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Trailer", TrailerRenderError)

	fw := sink.NewFlushWriter(w, s.config.FlushThreshold)
	out := io.Writer(fw)
	if prefix != "" {
		// Hold the prefix back so an immediate failure can still set a
		// status code.
		out = &prefixWriter{w: fw, prefix: prefix}
	}

	err := s.renderTo(r.Context(), out, backend, drive)
	written := fw.Written()

	if err != nil {
		s.logger.Warn("render failed",
			"backend", backend,
			"path", r.URL.Path,
			"written", written,
			"error", err,
			"request_id", requestID(r))
		if written == 0 {
			w.Header().Del("Trailer")
			s.fail(w, r, err)
			return
		}
		w.Header().Set(TrailerRenderError, oneLine(errors.Classify(err).FormatCompact()))
	}
	fw.Flush()
}

// renderTo runs drive on a fresh session of the named backend and writes
// the resulting HTML to out.
func (s *Server) renderTo(ctx context.Context, out io.Writer, backend string, drive driveFunc) error {
	pw, _ := out.(*prefixWriter)
	if s.config.Metrics != nil {
		out = s.config.Metrics.CountWriter(out, backend)
	}

	switch backend {
	case BackendDOM:
		t := dom.New()
		b, done := s.decorate(ctx, t, backend)
		defer done()
		if err := drive(b); err != nil {
			return err
		}
		frag, err := t.Fragment()
		if err != nil {
			return err
		}
		renderer := render.NewRenderer(render.RendererConfig{Pretty: s.config.Pretty})
		if err := renderer.RenderChildren(out, frag); err != nil {
			return fmt.Errorf("render: %w", err)
		}

	default:
		b, done := s.decorate(ctx, stream.New(out, stream.WithLogger(s.logger)), backend)
		defer done()
		if err := drive(b); err != nil {
			return err
		}
	}

	// An empty document still gets its prefix.
	if pw != nil {
		return pw.flushPrefix()
	}
	return nil
}

// decorate wraps b with the configured instrumentation. done ends the
// instrumented session if drive returned before Finish.
func (s *Server) decorate(ctx context.Context, b tree.Builder, backend string) (tree.Builder, func()) {
	var closers []io.Closer
	if s.config.Metrics != nil {
		m := s.config.Metrics.Wrap(b, backend)
		closers = append(closers, m)
		b = m
	}
	if s.config.Tracing {
		t := instrument.Trace(ctx, b, backend, instrument.WithTracerName(s.config.TracerName))
		closers = append(closers, t)
		b = t
	}
	return b, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}
}

func (s *Server) backend(w http.ResponseWriter, r *http.Request) (string, bool) {
	backend := r.URL.Query().Get("backend")
	if backend == "" {
		backend = s.config.Backend
	}
	switch backend {
	case BackendStream, BackendDOM:
		return backend, true
	}
	s.fail(w, r, errors.New("T050").
		WithDetail(fmt.Sprintf("Unknown backend %q.", backend)))
	return "", false
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, "cannot read request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// fail writes err as an error response: a JSON object when the client
// accepts application/json, plain text otherwise.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if !acceptsJSON(r) {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, errors.Classify(err).FormatJSON()+"\n")
}

func acceptsJSON(r *http.Request) bool {
	for _, v := range r.Header.Values("Accept") {
		for _, part := range strings.Split(v, ",") {
			mediaType, _, _ := strings.Cut(part, ";")
			if strings.TrimSpace(mediaType) == "application/json" {
				return true
			}
		}
	}
	return false
}

// statusFor maps an error onto an HTTP status code.
func statusFor(err error) int {
	var te *errors.TreeError
	if stderrors.As(err, &te) {
		switch te.Code {
		case "T020", "T021", "T050":
			return http.StatusBadRequest
		}
	}
	if tree.IsContractError(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// prefixWriter writes prefix ahead of the first write.
type prefixWriter struct {
	w      io.Writer
	prefix string
	done   bool
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	if err := p.flushPrefix(); err != nil {
		return 0, err
	}
	return p.w.Write(b)
}

func (p *prefixWriter) flushPrefix() error {
	if p.done {
		return nil
	}
	p.done = true
	_, err := io.WriteString(p.w, p.prefix)
	return err
}
