package toolgen

import (
	"fmt"
	"strings"

	"github.com/entrhq/anvil/pkg/types"
)

// GeneratorRolePrompt frames the model as a page-tool author.
const GeneratorRolePrompt = `<role>
You write small, single-purpose JavaScript tools that run against the web page
the user is currently viewing. Each tool is a short script body, not a full
program: it is evaluated directly in the page context and has access to the
page's DOM, window, and document.
</role>`

// OutputContractPrompt pins the response shape the validator expects.
const OutputContractPrompt = `<output_contract>
Respond with exactly one JSON object and nothing else. No markdown fences, no
commentary before or after the object.

The object MUST have exactly these keys:
{
  "name": "a short human-readable tool name, 2-5 words",
  "script": "the JavaScript body to evaluate against the page",
  "explanation": "one or two sentences describing what the tool does"
}

**CRITICAL RULES:**
1. Every key must be present and non-empty
2. The script value is a plain string; escape quotes and newlines as JSON requires
3. Do not wrap the object in backticks or any other fencing
4. Do not emit more than one object
</output_contract>`

// ScriptRulesPrompt constrains the generated script body.
const ScriptRulesPrompt = `<script_rules>
- The script body is evaluated directly in the page; never wrap it in <script> tags or markdown fences
- Prefer plain DOM APIs available in every modern browser; do not assume jQuery or other libraries
- When the user asks for extracted data, make the script's final expression evaluate to that data
- Keep scripts idempotent where possible; they may run on every page load when marked auto-run
- Never navigate away from the current page unless navigation is the tool's stated purpose
</script_rules>`

// PromptBuilder constructs the system prompt for one generation round-trip
type PromptBuilder struct {
	pageContext   string
	existingTools []string
}

// NewPromptBuilder creates a new prompt builder with default settings
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// WithPageContext adds cleaned page content so the model can target the
// actual structure of the page the user is viewing
func (pb *PromptBuilder) WithPageContext(context string) *PromptBuilder {
	pb.pageContext = context
	return pb
}

// WithExistingTools adds the names already in the user's collection so the
// model avoids duplicating them
func (pb *PromptBuilder) WithExistingTools(names []string) *PromptBuilder {
	pb.existingTools = names
	return pb
}

// Build constructs the complete system prompt by assembling all sections
func (pb *PromptBuilder) Build() string {
	var builder strings.Builder

	builder.WriteString(GeneratorRolePrompt)
	builder.WriteString("\n\n")

	builder.WriteString(OutputContractPrompt)
	builder.WriteString("\n\n")

	builder.WriteString(ScriptRulesPrompt)

	if pb.pageContext != "" {
		builder.WriteString("\n\n<page_context>\n")
		builder.WriteString(pb.pageContext)
		builder.WriteString("\n</page_context>")
	}

	if len(pb.existingTools) > 0 {
		builder.WriteString("\n\n<existing_tools>\n")
		for _, name := range pb.existingTools {
			builder.WriteString(fmt.Sprintf("- %s\n", name))
		}
		builder.WriteString("</existing_tools>")
	}

	return builder.String()
}

// BuildMessages creates the message list for one generation request
func BuildMessages(systemPrompt, instruction string) []*types.Message {
	return []*types.Message{
		types.NewSystemMessage(systemPrompt),
		types.NewUserMessage(instruction),
	}
}
