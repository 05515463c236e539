// Package openai provides an OpenAI-compatible LLM provider implementation.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "os"
//
//	    "github.com/entrhq/anvil/pkg/llm/openai"
//	    "github.com/entrhq/anvil/pkg/types"
//	)
//
//	func main() {
//	    provider, err := openai.NewProvider(
//	        os.Getenv("OPENAI_API_KEY"),
//	        openai.WithModel("gpt-4o"),
//	    )
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    reply, err := provider.Complete(context.Background(), []*types.Message{
//	        types.NewUserMessage("Return a JSON object describing a page tool."),
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(reply.Content)
//	}
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/entrhq/anvil/pkg/llm"
	"github.com/entrhq/anvil/pkg/llm/parser"
	"github.com/entrhq/anvil/pkg/types"
	"github.com/openai/openai-go"
)

const (
	// DefaultBaseURL is the default OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when no model option is given.
	DefaultModel = "gpt-4o"
)

// Provider implements the LLM provider interface for OpenAI-compatible APIs.
// Streaming uses raw HTTP SSE handling rather than the SDK's stream helpers,
// which tolerates the comment lines and format variations that compatible
// gateways emit; request payloads are built with the SDK's message helpers.
type Provider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	modelInfo  *types.ModelInfo
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		p.model = model
	}
}

// WithBaseURL sets a custom base URL for OpenAI-compatible APIs. This enables
// Azure OpenAI, local models, and other compatible services.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// NewProvider creates a new OpenAI provider with the given API key.
//
// If apiKey is empty, the OPENAI_API_KEY environment variable is consulted.
// If no base URL is set via WithBaseURL, the OPENAI_BASE_URL environment
// variable is consulted before falling back to the default.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")
	}

	p := &Provider{
		model:      DefaultModel,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.baseURL == DefaultBaseURL {
		if envBaseURL := os.Getenv("OPENAI_BASE_URL"); envBaseURL != "" {
			p.baseURL = envBaseURL
		}
	}

	p.modelInfo = &types.ModelInfo{
		Metadata:          make(map[string]interface{}),
		Provider:          "openai",
		Name:              p.model,
		SupportsStreaming: true,
		MaxTokens:         8192, // conservative default, varies by model
	}
	if p.baseURL != DefaultBaseURL {
		p.modelInfo.Metadata["base_url"] = p.baseURL
	}

	return p, nil
}

// CloneWithModel returns a shallow copy of p configured to use the given
// model. The clone shares the HTTP client, API key, and base URL with the
// original. It implements llm.ModelCloner.
func (p *Provider) CloneWithModel(model string) llm.Provider {
	clone := *p
	clone.model = model
	if p.modelInfo != nil {
		mi := *p.modelInfo
		mi.Name = model
		clone.modelInfo = &mi
	}
	return &clone
}

// StreamCompletion sends messages to the API and streams back response
// chunks. The channel is closed when streaming completes or fails;
// stream-time errors arrive as chunks with Error set.
func (p *Provider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	resp, err := p.sendStreamRequest(ctx, messages)
	if err != nil {
		return nil, err
	}

	chunks := make(chan *llm.StreamChunk, 10)
	go p.processStream(ctx, resp, chunks)
	return chunks, nil
}

// Complete sends messages to the API and returns the full response,
// accumulating only message-type content (thinking content is dropped).
func (p *Provider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	stream, err := p.StreamCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	role := ""

	for chunk := range stream {
		if chunk.IsError() {
			return nil, chunk.Error
		}
		if chunk.Role != "" {
			role = chunk.Role
		}
		if !chunk.IsThinking() {
			content.WriteString(chunk.Content)
		}
	}

	if role == "" {
		role = string(types.RoleAssistant)
	}

	return &types.Message{
		Role:    types.MessageRole(role),
		Content: content.String(),
	}, nil
}

// GetModelInfo returns information about the model being used.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return p.modelInfo
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}

// GetBaseURL returns the base URL being used.
func (p *Provider) GetBaseURL() string {
	return p.baseURL
}

// GetAPIKey returns the API key being used.
func (p *Provider) GetAPIKey() string {
	return p.apiKey
}

// sendStreamRequest creates and sends the streaming HTTP request.
func (p *Provider) sendStreamRequest(ctx context.Context, messages []*types.Message) (*http.Response, error) {
	reqBody := map[string]interface{}{
		"model":    p.model,
		"messages": convertMessages(messages),
		"stream":   true,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("API request failed with status %d (failed to read error body: %w)", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// sseDelta is the slice of the SSE payload this provider cares about.
type sseDelta struct {
	Choices []struct {
		Delta struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// processStream reads SSE lines, routes content through the thinking parser,
// and forwards chunks until the stream ends.
func (p *Provider) processStream(ctx context.Context, resp *http.Response, chunks chan<- *llm.StreamChunk) {
	defer close(chunks)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	thinkingParser := parser.NewThinkingParser()
	role := ""

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue // blank lines and SSE comments
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			p.flushParser(ctx, thinkingParser, role, chunks)
			p.send(ctx, &llm.StreamChunk{Finished: true}, chunks)
			return
		}

		var delta sseDelta
		if err := json.Unmarshal([]byte(data), &delta); err != nil {
			continue // skip malformed chunks silently
		}
		if len(delta.Choices) == 0 {
			continue
		}

		choice := delta.Choices[0]
		if choice.Delta.Role != "" {
			role = choice.Delta.Role
		}

		if choice.Delta.Content != "" {
			thinking, message := thinkingParser.Parse(choice.Delta.Content)
			if !p.sendParsed(ctx, thinking, message, role, chunks) {
				return
			}
		}

		if choice.FinishReason != nil && *choice.FinishReason != "" {
			p.flushParser(ctx, thinkingParser, role, chunks)
			p.send(ctx, &llm.StreamChunk{Role: role, Finished: true}, chunks)
			return
		}
	}

	p.flushParser(ctx, thinkingParser, role, chunks)

	if err := scanner.Err(); err != nil {
		chunks <- &llm.StreamChunk{Error: fmt.Errorf("stream read error: %w", err)}
	}
}

// flushParser drains any content still buffered in the thinking parser.
func (p *Provider) flushParser(ctx context.Context, tp *parser.ThinkingParser, role string, chunks chan<- *llm.StreamChunk) {
	thinking, message := tp.Flush()
	p.sendParsed(ctx, thinking, message, role, chunks)
}

// sendParsed forwards parsed thinking/message chunks, tagging them with the
// response role. Returns false if the context was cancelled.
func (p *Provider) sendParsed(ctx context.Context, thinking, message *llm.StreamChunk, role string, chunks chan<- *llm.StreamChunk) bool {
	for _, chunk := range []*llm.StreamChunk{thinking, message} {
		if chunk == nil {
			continue
		}
		chunk.Role = role
		if !p.send(ctx, chunk, chunks) {
			return false
		}
	}
	return true
}

// send delivers one chunk, honoring context cancellation.
func (p *Provider) send(ctx context.Context, chunk *llm.StreamChunk, chunks chan<- *llm.StreamChunk) bool {
	select {
	case chunks <- chunk:
		return true
	case <-ctx.Done():
		chunks <- &llm.StreamChunk{Error: ctx.Err()}
		return false
	}
}

// convertMessages converts anvil messages to the SDK's message params.
func convertMessages(messages []*types.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case types.RoleUser:
			converted = append(converted, openai.UserMessage(msg.Content))
		case types.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(msg.Content))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}

	return converted
}
