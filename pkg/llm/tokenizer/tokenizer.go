// Package tokenizer provides token counting for prompt budget enforcement.
package tokenizer

import (
	"fmt"

	"github.com/entrhq/anvil/pkg/types"
	"github.com/pkoukk/tiktoken-go"
)

const (
	// defaultEncoding is the BPE encoding used when no model-specific
	// encoding is available. cl100k_base covers the GPT-4 family and is a
	// close enough approximation for budget purposes on compatible APIs.
	defaultEncoding = "cl100k_base"

	// messageOverheadTokens approximates the per-message wrapping cost
	// (role markers and separators) in the chat format.
	messageOverheadTokens = 4
)

// Tokenizer counts and trims text by token count.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer with the default encoding.
func New() (*Tokenizer, error) {
	return NewForModel("")
}

// NewForModel creates a tokenizer using the named model's encoding, falling
// back to the default encoding when the model is unknown.
func NewForModel(model string) (*Tokenizer, error) {
	if model != "" {
		if enc, err := tiktoken.EncodingForModel(model); err == nil {
			return &Tokenizer{encoding: enc}, nil
		}
	}

	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", defaultEncoding, err)
	}
	return &Tokenizer{encoding: enc}, nil
}

// CountTokens returns the number of tokens in text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountMessagesTokens returns the approximate token count of a conversation,
// including per-message wrapping overhead.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		total += t.CountTokens(msg.Content) + messageOverheadTokens
	}
	return total
}

// Truncate returns text cut down to at most maxTokens tokens. Text already
// within budget is returned unchanged. A non-positive budget yields the
// empty string.
func (t *Tokenizer) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}

	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}

	return t.encoding.Decode(tokens[:maxTokens])
}
