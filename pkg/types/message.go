package types

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // RoleSystem is instruction content supplied by the application.
	RoleUser      MessageRole = "user"      // RoleUser is content supplied by the user.
	RoleAssistant MessageRole = "assistant" // RoleAssistant is content produced by the model.
)

// Message is a single conversation message exchanged with an LLM provider.
type Message struct {
	// Role indicates who authored the message.
	Role MessageRole

	// Content is the message text.
	Content string
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant-role message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// ModelInfo describes the model behind an LLM provider.
type ModelInfo struct {
	// Metadata holds provider-specific details (base URL overrides, etc.).
	Metadata map[string]interface{}

	// Provider is the provider family name (e.g. "openai").
	Provider string

	// Name is the model identifier.
	Name string

	// MaxTokens is the model's context window size, when known.
	MaxTokens int

	// SupportsStreaming indicates whether the provider can stream responses.
	SupportsStreaming bool
}
