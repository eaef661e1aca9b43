// Package script reads and runs call scripts: YAML or JSON lists of
// builder operations.
//
// A script is a sequence; each entry names one operation:
//
//	- open: svg
//	  ns: http://www.w3.org/2000/svg
//	- attr: viewBox
//	  value: 0 0 10 10
//	- attr: hidden        # no value: stringifies as "undefined"
//	- attr: title
//	  value: null         # stringifies as "null"
//	- text: hello
//	- comment: note
//	- html: <b>raw</b>
//	- close
//
// Since JSON is valid YAML, the same script may be written as
//
//	[{"open": "p"}, {"text": "hi"}, "close"]
//
// Parse errors and failed operations are reported as coded errors that
// carry the line and column of the offending entry.
package script
