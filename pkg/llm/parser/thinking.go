package parser

import (
	"strings"

	"github.com/entrhq/anvil/pkg/llm"
)

// ThinkingParser separates <thinking> tag content from regular response
// content in a provider stream. Tags may span chunk boundaries, so the parser
// buffers a potential tag from '<' until the closing '>' before deciding what
// it was.
type ThinkingParser struct {
	tag      strings.Builder // buffered potential tag, '<' seen but no '>' yet
	inTag    bool
	thinking bool
}

// NewThinkingParser creates a new thinking parser.
func NewThinkingParser() *ThinkingParser {
	return &ThinkingParser{}
}

// Parse processes one content chunk and returns the thinking and message
// portions found in it. Either return may be nil when the chunk contributed
// nothing to that stream.
func (p *ThinkingParser) Parse(content string) (thinking, message *llm.StreamChunk) {
	if content == "" {
		return nil, nil
	}

	var thinkingOut, messageOut strings.Builder

	for _, ch := range content {
		switch {
		case ch == '<':
			if p.inTag {
				// The previous '<' never closed; it was ordinary content.
				p.emit(p.tag.String(), &thinkingOut, &messageOut)
			}
			p.inTag = true
			p.tag.Reset()
			p.tag.WriteRune(ch)

		case ch == '>' && p.inTag:
			p.tag.WriteRune(ch)
			tag := p.tag.String()
			p.tag.Reset()
			p.inTag = false

			switch tag {
			case "<thinking>":
				p.thinking = true
			case "</thinking>":
				p.thinking = false
			default:
				// Not a thinking tag; pass it through unchanged.
				p.emit(tag, &thinkingOut, &messageOut)
			}

		case p.inTag:
			p.tag.WriteRune(ch)

		default:
			p.emit(string(ch), &thinkingOut, &messageOut)
		}
	}

	return chunksOf(&thinkingOut, &messageOut)
}

// Flush returns any buffered content that has not been emitted yet. Call at
// the end of a stream so a dangling '<...' is not lost.
func (p *ThinkingParser) Flush() (thinking, message *llm.StreamChunk) {
	var thinkingOut, messageOut strings.Builder

	if p.inTag && p.tag.Len() > 0 {
		p.emit(p.tag.String(), &thinkingOut, &messageOut)
		p.tag.Reset()
		p.inTag = false
	}

	return chunksOf(&thinkingOut, &messageOut)
}

// IsInThinking returns true if the parser is currently inside a thinking block.
func (p *ThinkingParser) IsInThinking() bool {
	return p.thinking
}

// Reset clears all parser state for a new stream.
func (p *ThinkingParser) Reset() {
	p.tag.Reset()
	p.inTag = false
	p.thinking = false
}

// emit routes text to the thinking or message builder based on current mode.
func (p *ThinkingParser) emit(text string, thinkingOut, messageOut *strings.Builder) {
	if p.thinking {
		thinkingOut.WriteString(text)
		return
	}
	messageOut.WriteString(text)
}

// chunksOf converts non-empty builders into stream chunks.
func chunksOf(thinkingOut, messageOut *strings.Builder) (thinking, message *llm.StreamChunk) {
	if thinkingOut.Len() > 0 {
		thinking = &llm.StreamChunk{
			Content: thinkingOut.String(),
			Type:    llm.ContentTypeThinking,
		}
	}
	if messageOut.Len() > 0 {
		message = &llm.StreamChunk{
			Content: messageOut.String(),
			Type:    llm.ContentTypeMessage,
		}
	}
	return thinking, message
}

// StripThinking removes <thinking> blocks from a complete response, returning
// only the message content. Object extraction runs on the stripped text so a
// draft-shaped object the model merely reasoned about is never mistaken for
// its answer.
func StripThinking(response string) string {
	p := NewThinkingParser()
	var out strings.Builder

	if _, message := p.Parse(response); message != nil {
		out.WriteString(message.Content)
	}
	if _, message := p.Flush(); message != nil {
		out.WriteString(message.Content)
	}

	return out.String()
}
