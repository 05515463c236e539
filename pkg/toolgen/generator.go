package toolgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/anvil/pkg/llm"
	"github.com/entrhq/anvil/pkg/llm/parser"
	"github.com/entrhq/anvil/pkg/logging"
	"github.com/entrhq/anvil/pkg/types"
)

// Request describes one generation round-trip.
type Request struct {
	// Instruction is the user's natural-language description of the tool.
	Instruction string
	// PageContext is cleaned content of the page being viewed, may be empty.
	PageContext string
	// ExistingTools lists names already in the collection, for dedup hints.
	ExistingTools []string
}

// Generator turns natural-language requests into validated tool drafts.
type Generator struct {
	provider llm.Provider
	logger   *logging.Logger
}

// NewGenerator creates a generator backed by the given provider.
func NewGenerator(provider llm.Provider) *Generator {
	logger, _ := logging.NewLogger("toolgen")
	return &Generator{
		provider: provider,
		logger:   logger,
	}
}

// Generate asks the provider for a tool and validates whatever comes back.
// Transport failures return an error; response-quality problems never do,
// they classify the returned draft instead.
func (g *Generator) Generate(ctx context.Context, req Request) (*Draft, error) {
	messages, err := buildRequestMessages(req)
	if err != nil {
		return nil, err
	}

	response, err := g.provider.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	return g.validate(response.Content), nil
}

// GenerateStream is Generate with incremental delivery: onDelta receives each
// response fragment as it arrives so the caller can render progress. The
// draft is validated from the accumulated response once the stream ends. A
// cancelled context returns the context error, not a failed draft.
func (g *Generator) GenerateStream(ctx context.Context, req Request, onDelta func(delta string)) (*Draft, error) {
	messages, err := buildRequestMessages(req)
	if err != nil {
		return nil, err
	}

	stream, err := g.provider.StreamCompletion(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	var response strings.Builder
	for chunk := range stream {
		if chunk.IsError() {
			return nil, fmt.Errorf("completion stream failed: %w", chunk.Error)
		}
		// Thinking content never reaches the caller: reasoning is not part
		// of the draft and must not be rendered as if it were.
		if chunk.IsThinking() || chunk.Content == "" {
			continue
		}
		response.WriteString(chunk.Content)
		if onDelta != nil {
			onDelta(chunk.Content)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.validate(response.String()), nil
}

// buildRequestMessages assembles the provider messages for one request.
func buildRequestMessages(req Request) ([]*types.Message, error) {
	if strings.TrimSpace(req.Instruction) == "" {
		return nil, fmt.Errorf("instruction must not be empty")
	}

	systemPrompt := NewPromptBuilder().
		WithPageContext(req.PageContext).
		WithExistingTools(req.ExistingTools).
		Build()
	return BuildMessages(systemPrompt, req.Instruction), nil
}

// validate classifies a complete response into a draft.
func (g *Generator) validate(response string) *Draft {
	// Thinking blocks are dropped before extraction so a draft-shaped object
	// inside the model's reasoning is never mistaken for the answer.
	draft := ValidateResponse(parser.StripThinking(response))
	g.logger.Infof("generated draft %q validity=%s", draft.Name, draft.Validity)
	return draft
}
