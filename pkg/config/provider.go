package config

import (
	"fmt"
	"os"

	"github.com/entrhq/anvil/pkg/llm/openai"
)

// BuildProvider creates an LLM provider based on configuration precedence:
// CLI flags > Environment variables > Config file > Defaults
func BuildProvider(cliModel, cliBaseURL, cliAPIKey, defaultModel string) (*openai.Provider, error) {
	model, baseURL, apiKey := resolveProviderSettings(cliModel, cliBaseURL, cliAPIKey, defaultModel)

	if apiKey == "" {
		return nil, fmt.Errorf("API key is required. Set OPENAI_API_KEY environment variable, use -api-key flag, or configure in ~/.anvil/config.json")
	}

	providerOpts := []openai.ProviderOption{
		openai.WithModel(model),
	}
	if baseURL != "" {
		providerOpts = append(providerOpts, openai.WithBaseURL(baseURL))
	}

	provider, err := openai.NewProvider(apiKey, providerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	return provider, nil
}

// resolveProviderSettings walks the precedence chain for each setting
// independently: a CLI flag wins, then the environment, then the config
// file, then the default.
func resolveProviderSettings(cliModel, cliBaseURL, cliAPIKey, defaultModel string) (model, baseURL, apiKey string) {
	model = cliModel
	baseURL = cliBaseURL
	apiKey = cliAPIKey

	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}

	if llm := GetLLM(); llm != nil {
		// A CLI model equal to the default counts as "not set", so the
		// config file can still override it
		if model == "" || model == defaultModel {
			if fileModel := llm.GetModel(); fileModel != "" {
				model = fileModel
			}
		}
		if baseURL == "" {
			baseURL = llm.GetBaseURL()
		}
		if apiKey == "" {
			apiKey = llm.GetAPIKey()
		}
	}

	if model == "" {
		model = defaultModel
	}

	return model, baseURL, apiKey
}
