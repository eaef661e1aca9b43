package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Contract Errors (T001-T009)
	// ============================================

	"T001": {
		Category: CategoryContract,
		Message:  "Mismatched openElement/closeElement calls",
		Detail:   "closeElement was called with no element open, or the tree was finished while elements were still open.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T001",
	},
	"T002": {
		Category: CategoryContract,
		Message:  "Attribute set after the opening tag was flushed",
		Detail:   "When streaming, attributes must be set right after openElement, before any child content or nested element.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T002",
	},
	"T003": {
		Category: CategoryContract,
		Message:  "Invalid element name",
		Detail:   "openElement requires a non-empty tag name.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T003",
	},

	// ============================================
	// Sink Errors (T010-T019)
	// ============================================

	"T010": {
		Category: CategorySink,
		Message:  "Output sink failed",
		Detail:   "The writer the tree was streaming to returned an error. Output written so far may be incomplete.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T010",
	},
	"T011": {
		Category: CategorySink,
		Message:  "Object upload failed",
		Detail:   "The rendered document could not be stored in the object bucket.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T011",
	},

	// ============================================
	// Script Errors (T020-T029)
	// ============================================

	"T020": {
		Category: CategoryScript,
		Message:  "Invalid call script",
		Detail:   "The script must be a YAML or JSON list of operations.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T020",
	},
	"T021": {
		Category: CategoryScript,
		Message:  "Unknown script operation",
		Detail:   "Supported operations are open, close, attr, text, comment and html.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T021",
	},
	"T022": {
		Category: CategoryScript,
		Message:  "Script operation failed",
		Detail:   "The builder rejected an operation from the script.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T022",
	},

	// ============================================
	// Config Errors (T030-T039)
	// ============================================

	"T030": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "treebuilder.json contains an invalid value.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T030",
	},
	"T031": {
		Category: CategoryConfig,
		Message:  "Configuration not readable",
		Detail:   "treebuilder.json exists but could not be read or parsed.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T031",
	},

	// ============================================
	// Markdown Errors (T040-T049)
	// ============================================

	"T040": {
		Category: CategoryMarkdown,
		Message:  "Markdown render failed",
		Detail:   "The Markdown document could not be rendered through the builder.",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T040",
	},

	// ============================================
	// CLI Errors (T050-T059)
	// ============================================

	"T050": {
		Category: CategoryCLI,
		Message:  "Unknown backend",
		Detail:   "The backend must be either \"dom\" or \"stream\".",
		DocURL:   "https://vango.dev/docs/treebuilder/errors/T050",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
