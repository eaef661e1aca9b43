// Package errors provides structured, actionable error messages for the
// treebuilder tools.
//
// Every error carries a code (e.g. "T001") that maps to a category, a short
// message, a longer explanation and a documentation link. Contract errors
// from the tree package are mapped onto codes by Classify, so the CLI and
// server can report a caller bug differently from a broken sink.
//
// # Error Categories
//
//   - contract: builder misuse (mismatched elements, late attributes)
//   - sink: the output writer failed
//   - script: a call script could not be read or executed
//   - config: treebuilder.json is invalid
//   - markdown: a Markdown document could not be rendered
//
// # Usage
//
//	err := errors.Classify(runErr).
//	    WithLocation("page.yaml", 12, 3).
//	    WithSuggestion("Add a close op for the <section> opened on line 4")
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// Output:
//	// ERROR T001: Mismatched openElement/closeElement calls
//	//
//	//   page.yaml:12:3
//	//
//	//     10 │   - text: hello
//	//     11 │   - close
//	//   → 12 │   - close
//	//        │   ^
//	//
//	//   Hint: Add a close op for the <section> opened on line 4
package errors
