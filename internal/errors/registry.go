package errors

// Registered error codes.
const (
	CodeInvalidElement = "E001"
	CodeInvalidChild   = "E002"

	CodeRenderSuperseded = "E010"
	CodeRenderRejected   = "E011"
	CodeRenderFailed     = "E012"

	CodeCreateNode      = "E020"
	CodeUnknownProperty = "E021"
	CodeInvalidProperty = "E022"
	CodeNodeNotFound    = "E023"
	CodeAppendChild     = "E024"

	CodeFrameDecode = "E040"
	CodeUnknownOp   = "E041"

	CodeSnapshotWrite  = "E060"
	CodeSnapshotConfig = "E061"

	CodeConfigParse     = "E120"
	CodeConfigScheduler = "E121"
	CodeConfigServer    = "E122"
	CodeConfigNotFound  = "E141"

	CodeCLIInput = "E200"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Element Errors (E001-E009)
	// ============================================

	CodeInvalidElement: {
		Category: CategoryElement,
		Message:  "Invalid element",
	},
	CodeInvalidChild: {
		Category: CategoryElement,
		Message:  "Invalid child value",
	},

	// ============================================
	// Render Errors (E010-E019)
	// ============================================

	CodeRenderSuperseded: {
		Category: CategoryRender,
		Message:  "Render superseded by a newer render",
	},
	CodeRenderRejected: {
		Category: CategoryRender,
		Message:  "Render rejected: another render is in flight",
	},
	CodeRenderFailed: {
		Category: CategoryRender,
		Message:  "Render failed",
	},

	// ============================================
	// Host Errors (E020-E039)
	// ============================================

	CodeCreateNode: {
		Category: CategoryHost,
		Message:  "Host node creation failed",
	},
	CodeUnknownProperty: {
		Category: CategoryHost,
		Message:  "Unknown property",
	},
	CodeInvalidProperty: {
		Category: CategoryHost,
		Message:  "Invalid property value",
	},
	CodeNodeNotFound: {
		Category: CategoryHost,
		Message:  "Host node not found",
	},
	CodeAppendChild: {
		Category: CategoryHost,
		Message:  "Append child failed",
	},

	// ============================================
	// Protocol Errors (E040-E059)
	// ============================================

	CodeFrameDecode: {
		Category: CategoryProtocol,
		Message:  "Frame decode failed",
	},
	CodeUnknownOp: {
		Category: CategoryProtocol,
		Message:  "Unknown host operation",
	},

	// ============================================
	// Storage Errors (E060-E079)
	// ============================================

	CodeSnapshotWrite: {
		Category: CategoryStorage,
		Message:  "Snapshot write failed",
	},
	CodeSnapshotConfig: {
		Category: CategoryStorage,
		Message:  "Invalid snapshot store",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Invalid fibre.json",
	},
	CodeConfigScheduler: {
		Category: CategoryConfig,
		Message:  "Invalid scheduler setting",
	},
	CodeConfigServer: {
		Category: CategoryConfig,
		Message:  "Invalid server setting",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Config file not found",
	},

	// ============================================
	// CLI Errors (E200-E219)
	// ============================================

	CodeCLIInput: {
		Category: CategoryCLI,
		Message:  "Invalid input",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
