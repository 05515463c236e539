// Package llm provides abstractions for LLM provider integration.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
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
//	        log.Fatal(err)
//	    }
//
//	    messages := []*types.Message{
//	        types.NewUserMessage("Describe this page in one sentence."),
//	    }
//
//	    reply, err := provider.Complete(context.Background(), messages)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(reply.Content)
//	}
package llm

import (
	"context"

	"github.com/entrhq/anvil/pkg/types"
)

// ModelCloner is an optional interface that providers can implement to support
// lightweight per-call model overrides without constructing a full second
// provider. The returned provider shares credentials and transport with the
// original but directs calls to the given model.
type ModelCloner interface {
	CloneWithModel(model string) Provider
}

// Provider defines the interface for LLM integrations.
//
// Providers handle API communication with LLM services and return simple
// StreamChunk instances. They know nothing about tool generation, drafts, or
// application events; the generation pipeline layers those semantics on top.
// This keeps providers reusable in non-interactive contexts (the headless
// runner, batch generation) and testable with a stub.
type Provider interface {
	// StreamCompletion sends messages to the LLM and streams back response
	// chunks.
	//
	// The returned channel emits StreamChunk instances: the first chunk
	// typically carries the Role, subsequent chunks carry Content deltas, the
	// final chunk has Finished set, and stream-time failures arrive as chunks
	// with Error set. The channel is closed when streaming completes or an
	// error occurs; callers should read until closure.
	//
	// Returns an error only if streaming cannot be initiated (invalid
	// configuration, network unavailable).
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete sends messages to the LLM and returns the full response.
	//
	// This is a convenience wrapper around StreamCompletion for non-streaming
	// use; it accumulates all chunks and returns the complete message.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModelInfo returns information about the model being used.
	GetModelInfo() *types.ModelInfo

	// GetModel returns the model name being used.
	GetModel() string

	// GetBaseURL returns the base URL being used for API requests.
	GetBaseURL() string

	// GetAPIKey returns the API key being used for authentication.
	GetAPIKey() string
}
