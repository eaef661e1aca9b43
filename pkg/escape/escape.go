// Package escape provides the escaping rules shared by every tree builder
// backend.
//
// Three HTML lexical contexts are covered: body text, double-quoted
// attribute values, and comment bodies. Each function first scans for a
// character that needs work and returns the input unchanged when none is
// found.
package escape

import (
	"regexp"
	"strings"
)

// htmlReplacer escapes text for inclusion in element content.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// attrReplacer escapes text for inclusion in a double-quoted attribute value.
var attrReplacer = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
)

// commentPattern matches every sequence a comment body may not contain:
// a leading ">" or "->", any "<!--", "-->" or "--!>", and a trailing "<!-".
// See https://html.spec.whatwg.org/multipage/syntax.html#comments.
var commentPattern = regexp.MustCompile(`^(?:>|->)|<!--|-->|--!>|<!-$`)

// HTML escapes text for safe inclusion in HTML content.
func HTML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	return htmlReplacer.Replace(s)
}

// Attr escapes text for inclusion in a double-quoted attribute value.
// Only '&' and '"' are replaced; '<', '>' and '\'' cannot end a
// double-quoted value.
func Attr(s string) string {
	if !strings.ContainsAny(s, `&"`) {
		return s
	}
	return attrReplacer.Replace(s)
}

// Comment strips the sequences that would terminate or corrupt a comment.
// Matches are removed, not escaped, in a single pass.
func Comment(s string) string {
	// Every forbidden sequence other than a leading '>' contains '-'.
	if s == "" || (s[0] != '>' && strings.IndexByte(s, '-') < 0) {
		return s
	}
	return commentPattern.ReplaceAllString(s, "")
}
