package errors

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/vango-dev/treebuilder/pkg/tree"
)

// Category represents the type of error.
type Category string

const (
	CategoryContract Category = "contract"
	CategorySink     Category = "sink"
	CategoryScript   Category = "script"
	CategoryConfig   Category = "config"
	CategoryMarkdown Category = "markdown"
	CategoryCLI      Category = "cli"
)

// Location represents a source location.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// TreeError is a structured error with location, suggestions, and
// documentation.
type TreeError struct {
	// Code is a unique error identifier (e.g., "T001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source location where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// ContextStart is the line number of Context[0]. Zero means the lines
	// are centred on Location.Line.
	ContextStart int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TreeError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TreeError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a source location and reads the surrounding lines.
func (e *TreeError) WithLocation(file string, line, column int) *TreeError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.ContextStart, e.Context = readContextLines(file, line, contextSize)
	return e
}

// WithSource is like WithLocation for sources that are already in memory,
// such as standard input or a request body. file is only displayed.
func (e *TreeError) WithSource(file string, src []byte, line, column int) *TreeError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.ContextStart, e.Context = scanContextLines(bytes.NewReader(src), line, contextSize)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TreeError) WithSuggestion(s string) *TreeError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *TreeError) WithDetail(d string) *TreeError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *TreeError) WithContext(lines []string) *TreeError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *TreeError) Wrap(err error) *TreeError {
	e.Wrapped = err
	return e
}

// contextSize is the number of source lines shown around a location.
const contextSize = 5

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) (int, []string) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, nil
	}
	defer file.Close()
	return scanContextLines(file, targetLine, contextSize)
}

// scanContextLines returns up to contextSize lines centred on targetLine
// and the line number of the first one.
func scanContextLines(r io.Reader, targetLine, contextSize int) (int, []string) {
	if targetLine <= 0 {
		return 0, nil
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	lineNum := 0
	startLine := targetLine - contextSize/2
	if startLine < 1 {
		startLine = 1
	}
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	if len(lines) == 0 {
		return 0, nil
	}
	return startLine, lines
}

// New creates a TreeError from a registered error code.
func New(code string) *TreeError {
	template, ok := registry[code]
	if !ok {
		return &TreeError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &TreeError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new TreeError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TreeError {
	return &TreeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a TreeError with the given code.
func FromError(err error, code string) *TreeError {
	if err == nil {
		return nil
	}
	var te *TreeError
	if stderrors.As(err, &te) {
		return te
	}
	return New(code).Wrap(err)
}

// Classify maps err onto a code: contract errors from the tree package get
// their own codes and anything else is treated as a sink failure.
func Classify(err error) *TreeError {
	if err == nil {
		return nil
	}
	var te *TreeError
	if stderrors.As(err, &te) {
		return te
	}
	switch {
	case stderrors.Is(err, tree.ErrMismatchedElement):
		return New("T001").Wrap(err)
	case stderrors.Is(err, tree.ErrFlush):
		return New("T002").Wrap(err)
	case stderrors.Is(err, tree.ErrInvalidName):
		return New("T003").Wrap(err)
	default:
		return New("T010").Wrap(err)
	}
}
