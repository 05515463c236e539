package toolgen

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/entrhq/anvil/pkg/llm/parser"
)

// ValidateResponse turns raw model output into a Draft. It never returns an
// error: blank input, extraction failure, and JSON parse failure all yield
// the Failed draft with the error-path defaults, while a parsed record with
// blank or absent fields takes per-field defaults and is classified
// ValidWithDefaults. The two default sets are deliberately distinct so
// callers can tell the outcomes apart by value.
func ValidateResponse(raw string) *Draft {
	if strings.TrimSpace(raw) == "" {
		return failedDraft()
	}

	candidate, ok := parser.ExtractObject(raw)
	if !ok {
		return failedDraft()
	}

	// The extractor is permissive, so this is where malformed candidates
	// like {"name":"Test","script":} get rejected.
	var record map[string]any
	if err := json.Unmarshal([]byte(candidate), &record); err != nil {
		return failedDraft()
	}

	name, nameOK := textField(record, "name")
	script, scriptOK := textField(record, "script")
	explanation, explanationOK := textField(record, "explanation")

	draft := &Draft{
		Name:        name,
		Script:      script,
		Explanation: explanation,
		Validity:    FullyValid,
	}
	if !nameOK {
		draft.Name = DefaultName
	}
	if !scriptOK {
		draft.Script = DefaultScript
	}
	if !explanationOK {
		draft.Explanation = DefaultExplanation
	}
	if !nameOK || !scriptOK || !explanationOK {
		draft.Validity = ValidWithDefaults
	}
	return draft
}

// textField reads one field from the decoded record, coercing non-string
// scalars to text. ok is false when the field is absent, null, or blank
// after trimming; the returned value itself is never trimmed, so surrounding
// whitespace in real content survives.
func textField(record map[string]any, key string) (string, bool) {
	value, present := record[key]
	if !present || value == nil {
		return "", false
	}
	text := coerceText(value)
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// coerceText renders a decoded JSON value as text. Strings pass through
// verbatim. encoding/json decodes every number as float64, so integral
// values are printed without the float suffix.
func coerceText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
