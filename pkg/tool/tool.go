package tool

import "encoding/json"

// DefaultIcon is applied to tools persisted before icons existed and to
// tools created without one.
const DefaultIcon = "🔧"

// Tool is a persisted, named script with execution and trust metadata.
//
// The JSON keys are the persisted wire format and must not change:
// name, script, isAutoRun, isVisibleOnMain, icon, description, isTrusted.
type Tool struct {
	Name            string `json:"name"`
	Script          string `json:"script"`
	IsAutoRun       bool   `json:"isAutoRun"`
	IsVisibleOnMain bool   `json:"isVisibleOnMain"`
	Icon            string `json:"icon"`
	Description     string `json:"description"`
	IsTrusted       bool   `json:"isTrusted"`
}

// New creates a tool with presentation defaults: default icon, visible on
// the main surface, not trusted, not auto-run. Tools accepted from AI drafts
// go through here so trust is never granted implicitly.
func New(name, script string) Tool {
	return Tool{
		Name:            name,
		Script:          script,
		IsVisibleOnMain: true,
		Icon:            DefaultIcon,
	}
}

// record shadows Tool with pointer fields so a key absent from an older
// serialized record is distinguishable from an explicit zero value.
type record struct {
	Name            *string `json:"name"`
	Script          *string `json:"script"`
	IsAutoRun       *bool   `json:"isAutoRun"`
	IsVisibleOnMain *bool   `json:"isVisibleOnMain"`
	Icon            *string `json:"icon"`
	Description     *string `json:"description"`
	IsTrusted       *bool   `json:"isTrusted"`
}

// UnmarshalJSON decodes a persisted record, applying schema-evolution
// defaults for keys missing from records written by older versions:
// icon, description, isTrusted, and isVisibleOnMain.
func (t *Tool) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	t.Name = stringOr(rec.Name, "")
	t.Script = stringOr(rec.Script, "")
	t.IsAutoRun = boolOr(rec.IsAutoRun, false)
	t.IsVisibleOnMain = boolOr(rec.IsVisibleOnMain, true)
	t.Icon = stringOr(rec.Icon, DefaultIcon)
	t.Description = stringOr(rec.Description, "")
	t.IsTrusted = boolOr(rec.IsTrusted, false)
	return nil
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
