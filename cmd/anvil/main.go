// Package main provides the anvil terminal application: a browser copilot
// that forges small page tools on request, keeps them in a persistent
// toolbelt, and runs them against the page behind a confirmation gate.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/anvil/pkg/app"
	"github.com/entrhq/anvil/pkg/autorun"
	"github.com/entrhq/anvil/pkg/browser"
	appconfig "github.com/entrhq/anvil/pkg/config"
	"github.com/entrhq/anvil/pkg/gate"
	"github.com/entrhq/anvil/pkg/security/urlguard"
	"github.com/entrhq/anvil/pkg/storage"
	"github.com/entrhq/anvil/pkg/tool"
	"github.com/entrhq/anvil/pkg/tui"
)

const (
	version      = "0.1.0"          // Version of the anvil copilot
	defaultModel = "openai/gpt-4o"  // Default model to use
	appName      = "ANVIL"          // Banner text above the prompt
	shutdownWait = 10 * time.Second // Grace period for core shutdown
)

// Config holds the application configuration
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	StartURL       string
	ShowVersion    bool
	Headless       bool
	HeadlessConfig string
}

func main() {
	// Parse command line flags
	config := parseFlags()

	// Show version if requested
	if config.ShowVersion {
		fmt.Printf("anvil v%s\n", version)
		return
	}

	// Validate configuration
	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	// Run the application
	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
}

// parseFlags parses command line flags and environment variables
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.APIKey, "api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key (or set OPENAI_API_KEY env var)")
	flag.StringVar(&config.BaseURL, "base-url", os.Getenv("OPENAI_BASE_URL"), "OpenAI API base URL (or set OPENAI_BASE_URL env var)")
	flag.StringVar(&config.Model, "model", defaultModel, "LLM model to use")
	flag.StringVar(&config.StartURL, "url", "", "Page to open on startup (defaults to the configured home page)")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")
	flag.BoolVar(&config.Headless, "headless", false, "Run one tool or request without the TUI")
	flag.StringVar(&config.HeadlessConfig, "headless-config", "", "Path to headless run configuration file (YAML)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Anvil - a browser copilot that forges page tools\n\n")
		fmt.Fprintf(os.Stderr, "Usage: anvil [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY     OpenAI API key\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_BASE_URL    OpenAI API base URL (for compatible APIs)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # TUI Mode (default)\n")
		fmt.Fprintf(os.Stderr, "  anvil                                    # Open on the configured home page\n")
		fmt.Fprintf(os.Stderr, "  anvil -url https://news.ycombinator.com\n")
		fmt.Fprintf(os.Stderr, "  anvil -model gpt-4-turbo\n")
		fmt.Fprintf(os.Stderr, "  anvil -base-url https://api.openrouter.ai/api/v1\n")
		fmt.Fprintf(os.Stderr, "\n  # Headless Mode (one-shot runs)\n")
		fmt.Fprintf(os.Stderr, "  anvil -headless -headless-config run.yaml\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is valid. The API key is not
// checked here: the provider builder resolves it across flag, environment,
// and config file, and reports its own error.
func (c *Config) validate() error {
	if c.Headless && c.HeadlessConfig == "" {
		return fmt.Errorf("headless mode requires a run configuration file (use -headless-config flag)")
	}
	return nil
}

// run executes the main application logic
func run(ctx context.Context, config *Config) error {
	// Check if headless mode is requested
	if config.Headless {
		return runHeadless(ctx, config)
	}

	// Run TUI mode (default)
	return runTUI(ctx, config)
}

// runTUI executes the TUI mode
func runTUI(ctx context.Context, config *Config) error {
	// Initialize global configuration (sandbox, site rules, auto-run, UI)
	if err := appconfig.Initialize(""); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	provider, err := appconfig.BuildProvider(config.Model, config.BaseURL, config.APIKey, defaultModel)
	if err != nil {
		return err
	}

	// Open the persistent toolbelt
	kv, err := storage.NewFileKV("")
	if err != nil {
		return fmt.Errorf("failed to open tool storage: %w", err)
	}
	store, err := tool.NewStore(kv)
	if err != nil {
		return fmt.Errorf("failed to load tool collection: %w", err)
	}

	opts, startURL, err := coreOptions(config)
	if err != nil {
		return err
	}

	a := app.New(provider, store, opts...)

	// Create TUI executor over the application core
	executor := tui.NewExecutor(a, appName, startURL)

	// Display welcome message
	fmt.Printf("anvil v%s - Browser Copilot\n", version)
	fmt.Printf("Model: %s\n", provider.GetModel())
	fmt.Printf("Data: ~/.anvil\n")
	fmt.Println("\nStarting TUI...")
	fmt.Println()

	// Run the executor
	runErr := executor.Run(ctx)

	// Stop the core regardless of how the TUI ended
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	if runErr != nil {
		return fmt.Errorf("executor error: %w", runErr)
	}
	return nil
}

// coreOptions assembles application core options from the loaded
// configuration sections and returns the resolved startup URL.
func coreOptions(config *Config) ([]app.Option, string, error) {
	opts := []app.Option{
		app.WithBrowserManager(browser.NewManager()),
	}

	startURL := config.StartURL
	if b := appconfig.GetBrowser(); b != nil {
		opts = append(opts,
			app.WithGateConfig(gate.Config{SandboxEnabled: b.IsSandboxEnabled()}),
			app.WithHeadless(b.IsHeadless()),
		)
		if startURL == "" {
			startURL = b.HomeURL()
		}
	}

	if ui := appconfig.GetUI(); ui != nil {
		opts = append(opts, app.WithGateTimeout(ui.GetConfirmationTimeout()))
	}

	if sites := appconfig.GetSiteRules(); sites != nil {
		guard, err := urlguard.NewGuard(sites.AllowedSites(), sites.DeniedSites())
		if err != nil {
			return nil, "", fmt.Errorf("invalid site rules: %w", err)
		}
		opts = append(opts, app.WithGuard(guard))
	}

	if ar := appconfig.GetAutoRun(); ar != nil {
		constraint, err := autorun.NewConstraint(ar.AllowedPages(), ar.DeniedPages())
		if err != nil {
			return nil, "", fmt.Errorf("invalid auto-run patterns: %w", err)
		}
		opts = append(opts,
			app.WithAutoRunEnabled(ar.IsEnabled()),
			app.WithAutoRunConstraint(constraint),
		)
	}

	if llmCfg := appconfig.GetLLM(); llmCfg != nil {
		if tokens := llmCfg.GetContextTokens(); tokens > 0 {
			opts = append(opts, app.WithContextTokens(tokens))
		}
	}

	return opts, startURL, nil
}
