package toolgen

import "github.com/entrhq/anvil/pkg/tool"

// Validity classifies how a model response survived validation.
type Validity int

const (
	// FullyValid means every field was present and non-blank in the response.
	FullyValid Validity = iota + 1
	// ValidWithDefaults means the response parsed but at least one field was
	// blank or absent and took its per-field default.
	ValidWithDefaults
	// Failed means no structured object could be recovered from the response.
	Failed
)

// String returns the lowercase validity name.
func (v Validity) String() string {
	switch v {
	case FullyValid:
		return "fully_valid"
	case ValidWithDefaults:
		return "valid_with_defaults"
	case Failed:
		return "failed"
	default:
		return "unspecified"
	}
}

// Error-path defaults, applied as a set when nothing usable could be parsed
// out of the response. Distinct from the per-field defaults below.
const (
	FailedName        = "Unnamed Tool"
	FailedScript      = "console.error('anvil: tool generation failed');"
	FailedExplanation = "The AI response could not be parsed into a tool."
)

// Per-field defaults, applied individually when the response parsed but a
// single field was blank or absent.
const (
	DefaultName        = "Untitled Tool"
	DefaultScript      = "console.warn('anvil: empty tool script');"
	DefaultExplanation = "No explanation was provided for this tool."
)

// Draft is the always-fully-populated result of validating one model
// response. All three text fields are non-blank after validation; Validity
// records how much of the content is original versus substituted.
type Draft struct {
	Name        string
	Script      string
	Explanation string
	Validity    Validity
}

// IsUsable reports whether the draft carries model-authored content, with or
// without substituted fields.
func (d *Draft) IsUsable() bool {
	return d.Validity != Failed
}

// FromDraft turns an accepted draft into a tool. New tools start visible
// and not auto-run; trust is granted only on the explicit trusted path.
func FromDraft(d *Draft, trusted bool) tool.Tool {
	t := tool.New(d.Name, d.Script)
	t.Description = d.Explanation
	t.IsTrusted = trusted
	return t
}

// failedDraft returns the fixed error-path draft. The same value is used for
// blank input, extraction failure, and parse failure so callers can assert on
// a single shape.
func failedDraft() *Draft {
	return &Draft{
		Name:        FailedName,
		Script:      FailedScript,
		Explanation: FailedExplanation,
		Validity:    Failed,
	}
}
