package instrument

import (
	"context"

	"github.com/vango-dev/treebuilder/pkg/tree"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "treebuilder"

// TraceConfig configures the tracing decorator.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "treebuilder").
	TracerName string

	// Provider is the tracer provider (default: the global provider).
	Provider trace.TracerProvider

	// Attributes are added to every session span.
	Attributes []attribute.KeyValue
}

// TraceOption configures the tracing decorator.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TraceOption {
	return func(c *TraceConfig) {
		c.Provider = tp
	}
}

// WithAttributes adds attributes to the session span.
func WithAttributes(attrs ...attribute.KeyValue) TraceOption {
	return func(c *TraceConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// TracedBuilder is a tree.Builder that records one span per session.
//
// The span starts when the builder is created and ends on Finish. Failed
// calls are recorded as span errors; the span carries per-operation
// counts as attributes.
type TracedBuilder struct {
	next   tree.Builder
	ctx    context.Context
	span   trace.Span
	ops    map[string]int
	failed bool
	ended  bool
}

var _ tree.Builder = (*TracedBuilder)(nil)

// Trace starts a session span and returns a builder forwarding to b.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before rendering:
//
//	otel.SetTracerProvider(tp)
func Trace(ctx context.Context, b tree.Builder, backend string, opts ...TraceOption) *TracedBuilder {
	config := TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	attrs := append([]attribute.KeyValue{
		attribute.String("treebuilder.backend", backend),
	}, config.Attributes...)

	spanCtx, span := tracer.Start(ctx, "treebuilder.session",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return &TracedBuilder{
		next: b,
		ctx:  spanCtx,
		span: span,
		ops:  make(map[string]int),
	}
}

// Context returns the context carrying the session span.
func (b *TracedBuilder) Context() context.Context {
	return b.ctx
}

// Unwrap returns the decorated builder.
func (b *TracedBuilder) Unwrap() tree.Builder {
	return b.next
}

func (b *TracedBuilder) record(op string, err error) {
	b.ops[op]++
	if err != nil {
		b.failed = true
		b.span.RecordError(err, trace.WithAttributes(
			attribute.String("treebuilder.op", op),
			attribute.String("treebuilder.error_kind", ErrorKind(err)),
		))
		b.span.SetStatus(codes.Error, err.Error())
	}
}

func (b *TracedBuilder) OpenElement(name, namespace string) (tree.NodeToken, error) {
	tok, err := b.next.OpenElement(name, namespace)
	b.record(OpOpenElement, err)
	return tok, err
}

func (b *TracedBuilder) CloseElement() error {
	err := b.next.CloseElement()
	b.record(OpCloseElement, err)
	return err
}

func (b *TracedBuilder) SetAttribute(name string, value any) error {
	err := b.next.SetAttribute(name, value)
	b.record(OpSetAttribute, err)
	return err
}

func (b *TracedBuilder) AppendText(text string) (tree.NodeToken, error) {
	tok, err := b.next.AppendText(text)
	b.record(OpAppendText, err)
	return tok, err
}

func (b *TracedBuilder) AppendComment(text string) (tree.NodeToken, error) {
	tok, err := b.next.AppendComment(text)
	b.record(OpAppendComment, err)
	return tok, err
}

func (b *TracedBuilder) AppendHTML(markup string) (tree.Bounds, error) {
	bounds, err := b.next.AppendHTML(markup)
	b.record(OpAppendHTML, err)
	return bounds, err
}

// Finish forwards to the wrapped builder and ends the span.
func (b *TracedBuilder) Finish() error {
	err := b.next.Finish()
	b.record(OpFinish, err)
	b.end()
	return err
}

// Close ends the span of a session abandoned before Finish. It does not
// call the wrapped builder. Close after Finish is a no-op.
func (b *TracedBuilder) Close() error {
	if !b.ended && !b.failed {
		b.failed = true
		b.span.SetStatus(codes.Error, "session abandoned before finish")
	}
	b.end()
	return nil
}

func (b *TracedBuilder) end() {
	if b.ended {
		return
	}
	b.ended = true

	attrs := make([]attribute.KeyValue, 0, len(b.ops))
	for _, op := range []string{
		OpOpenElement, OpCloseElement, OpSetAttribute,
		OpAppendText, OpAppendComment, OpAppendHTML,
	} {
		if n := b.ops[op]; n > 0 {
			attrs = append(attrs, attribute.Int("treebuilder.ops."+op, n))
		}
	}
	b.span.SetAttributes(attrs...)
	if !b.failed {
		b.span.SetStatus(codes.Ok, "")
	}
	b.span.End()
}
