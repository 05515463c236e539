package parser

import (
	"strings"
	"testing"
)

// TestThinkingParserSeparatesStreams verifies thinking content and message
// content end up in their own streams across chunk boundaries.
func TestThinkingParserSeparatesStreams(t *testing.T) {
	parser := NewThinkingParser()

	chunks := []string{
		"<think",
		"ing>The user wants a dark mode tool.",
		" I should target the body element.</thinking>",
		`{"name":"Dark Mode","script":"x()"}`,
	}

	var thinkingContent, messageContent string
	for _, chunk := range chunks {
		thinking, message := parser.Parse(chunk)
		if thinking != nil {
			thinkingContent += thinking.Content
		}
		if message != nil {
			messageContent += message.Content
		}
	}

	thinking, message := parser.Flush()
	if thinking != nil {
		thinkingContent += thinking.Content
	}
	if message != nil {
		messageContent += message.Content
	}

	if parser.IsInThinking() {
		t.Error("parser should not be in thinking mode after </thinking>")
	}
	if !strings.Contains(thinkingContent, "dark mode tool") {
		t.Errorf("thinking stream missing reasoning content, got: %q", thinkingContent)
	}
	if messageContent != `{"name":"Dark Mode","script":"x()"}` {
		t.Errorf("message stream should hold only the answer, got: %q", messageContent)
	}
}

// TestThinkingParserAngleBracketsInContent verifies comparison operators and
// code snippets inside thinking content do not break tag detection.
func TestThinkingParserAngleBracketsInContent(t *testing.T) {
	parser := NewThinkingParser()

	chunks := []string{
		"<thinking>",
		"Loop check: for (i = 0; i < 10; i++) { }\n",
		"Also x > 3 matters here.\n",
		"</thinking>",
		"done",
	}

	var thinkingContent, messageContent string
	for _, chunk := range chunks {
		thinking, message := parser.Parse(chunk)
		if thinking != nil {
			thinkingContent += thinking.Content
		}
		if message != nil {
			messageContent += message.Content
		}
	}

	thinking, message := parser.Flush()
	if thinking != nil {
		thinkingContent += thinking.Content
	}
	if message != nil {
		messageContent += message.Content
	}

	if parser.IsInThinking() {
		t.Error("parser stuck in thinking mode after </thinking>")
	}
	if !strings.Contains(thinkingContent, "i < 10") || !strings.Contains(thinkingContent, "x > 3") {
		t.Errorf("thinking content should preserve angle brackets, got: %q", thinkingContent)
	}
	if !strings.Contains(messageContent, "done") {
		t.Errorf("message content should contain trailing text, got: %q", messageContent)
	}
}

// TestThinkingParserDanglingTag verifies an unclosed '<...' is flushed rather
// than swallowed at end of stream.
func TestThinkingParserDanglingTag(t *testing.T) {
	parser := NewThinkingParser()

	var messageContent string
	if _, message := parser.Parse("value is a <b"); message != nil {
		messageContent += message.Content
	}
	if _, message := parser.Flush(); message != nil {
		messageContent += message.Content
	}

	if messageContent != "value is a <b" {
		t.Errorf("dangling tag content lost, got: %q", messageContent)
	}
}

func TestStripThinking(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no thinking tags",
			input:    `{"name":"Plain"}`,
			expected: `{"name":"Plain"}`,
		},
		{
			name:     "thinking block removed",
			input:    `<thinking>maybe {"name":"Wrong"}?</thinking>{"name":"Right"}`,
			expected: `{"name":"Right"}`,
		},
		{
			name:     "thinking only",
			input:    "<thinking>no answer produced</thinking>",
			expected: "",
		},
		{
			name:     "unclosed thinking swallows the rest",
			input:    `<thinking>still reasoning {"name":"Hidden"}`,
			expected: "",
		},
		{
			name:     "other tags untouched",
			input:    "<b>bold</b> text",
			expected: "<b>bold</b> text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripThinking(tt.input)
			if got != tt.expected {
				t.Errorf("StripThinking(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
