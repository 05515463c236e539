package llm

// ContentType classifies streamed content from a provider.
type ContentType string

const (
	// ContentTypeMessage is ordinary response content.
	ContentTypeMessage ContentType = "message"

	// ContentTypeThinking is reasoning content emitted inside <thinking> tags
	// by models that expose their chain of thought.
	ContentTypeThinking ContentType = "thinking"
)

// StreamChunk is a single increment of a streamed provider response.
type StreamChunk struct {
	// Error is set when the stream failed; no further chunks follow.
	Error error

	// Role is the message role, set on the first chunk of a response.
	Role string

	// Content is the text delta carried by this chunk.
	Content string

	// Type classifies the content (message or thinking).
	Type ContentType

	// Finished is true on the final chunk of a completed response.
	Finished bool
}

// IsError returns true if this chunk carries a stream error.
func (c *StreamChunk) IsError() bool {
	return c.Error != nil
}

// IsThinking returns true if this chunk carries thinking content.
func (c *StreamChunk) IsThinking() bool {
	return c.Type == ContentTypeThinking
}
