package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/anvil/pkg/browser"
	appconfig "github.com/entrhq/anvil/pkg/config"
	"github.com/entrhq/anvil/pkg/llm"
	"github.com/entrhq/anvil/pkg/runner"
	"github.com/entrhq/anvil/pkg/security/urlguard"
	"github.com/entrhq/anvil/pkg/storage"
	"github.com/entrhq/anvil/pkg/tool"
	"github.com/entrhq/anvil/pkg/toolgen"
	"gopkg.in/yaml.v3"
)

// runDuration is a time.Duration that unmarshals from a Go duration string
// such as "90s" or "2m"; the yaml package has no native duration support.
type runDuration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *runDuration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = runDuration(parsed)
	return nil
}

// RunConfig describes one headless invocation: load a page, run exactly one
// tool against it, report the outcome.
type RunConfig struct {
	// URL is the page to load before running.
	URL string `yaml:"url"`

	// Tool names a saved tool from the collection to run.
	Tool string `yaml:"tool"`

	// Request forges a new tool from a natural-language description
	// instead of using a saved one.
	Request string `yaml:"request"`

	// Model overrides the forging model for this run only.
	Model string `yaml:"model"`

	// Save persists a forged tool to the collection after a successful
	// run. Saved tools land untrusted, like any accepted draft.
	Save bool `yaml:"save"`

	// ArtifactDir receives the run outcome and optional page capture.
	ArtifactDir string `yaml:"artifact_dir"`

	// CapturePDF writes a PDF of the loaded page into ArtifactDir.
	CapturePDF bool `yaml:"capture_pdf"`

	// Timeout bounds the whole run, navigation and generation included.
	Timeout runDuration `yaml:"timeout"`
}

// DefaultRunConfig returns a run configuration with default values.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Timeout: runDuration(2 * time.Minute),
	}
}

// Validate checks the run configuration for completeness.
func (c *RunConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if !urlguard.AllowedScriptTarget(c.URL) {
		return fmt.Errorf("url must be an http(s) page, got %q", c.URL)
	}
	if c.Tool == "" && c.Request == "" {
		return fmt.Errorf("either tool or request is required")
	}
	if c.Tool != "" && c.Request != "" {
		return fmt.Errorf("tool and request are mutually exclusive")
	}
	if c.CapturePDF && c.ArtifactDir == "" {
		return fmt.Errorf("capture_pdf requires artifact_dir")
	}
	if c.Save && c.Request == "" {
		return fmt.Errorf("save applies only to forged requests")
	}
	if c.Model != "" && c.Request == "" {
		return fmt.Errorf("model applies only to forged requests")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// runArtifact is the outcome record written into the artifact directory.
type runArtifact struct {
	Tool     string `json:"tool"`
	URL      string `json:"url"`
	Status   string `json:"status"`
	Value    string `json:"value,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Duration string `json:"duration"`
}

// runHeadless executes one tool run without the TUI. There is no user to
// answer a confirmation here; naming the tool in the run configuration is
// the confirmation, and the script executes directly.
func runHeadless(ctx context.Context, config *Config) error {
	runCfg, err := loadRunConfig(config.HeadlessConfig)
	if err != nil {
		return err
	}

	// Initialize global configuration
	if initErr := appconfig.Initialize(""); initErr != nil {
		return fmt.Errorf("failed to initialize configuration: %w", initErr)
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

	// Apply timeout if configured
	if runCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(runCfg.Timeout))
		defer cancel()
	}

	log.Printf("Starting headless run...")
	log.Printf("URL: %s", runCfg.URL)
	if runCfg.Tool != "" {
		log.Printf("Tool: %s", runCfg.Tool)
	} else {
		log.Printf("Request: %s", runCfg.Request)
	}

	mgr := browser.NewManager()
	if err := mgr.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() {
		if shutdownErr := mgr.Shutdown(); shutdownErr != nil {
			log.Printf("Browser shutdown error: %v", shutdownErr)
		}
	}()

	session, err := mgr.StartSession(browser.Options{Headless: true})
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}

	startTime := time.Now()
	if _, err := mgr.Navigate(ctx, session.ID, runCfg.URL, browser.NavigateOptions{}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	t, err := resolveTool(ctx, runCfg, provider, store, mgr, session.ID)
	if err != nil {
		return err
	}

	result := runner.New(browser.NewEngine(session)).Run(ctx, t)
	log.Printf("Run finished in %s", time.Since(startTime))

	if result.Succeeded() && runCfg.Save && runCfg.Request != "" {
		if saveErr := store.Add(t); saveErr != nil {
			log.Printf("Could not save forged tool: %v", saveErr)
		} else {
			log.Printf("Saved %q to the tool collection", t.Name)
		}
	}

	if err := writeArtifacts(mgr, session.ID, runCfg, t, result); err != nil {
		return err
	}

	printResult(t, result)
	if !result.Succeeded() {
		return fmt.Errorf("tool run failed: %s", result.Detail)
	}
	return nil
}

// loadRunConfig loads and validates the run configuration from a YAML file.
func loadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config: %w", err)
	}

	runCfg := DefaultRunConfig()
	if unmarshalErr := yaml.Unmarshal(data, runCfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse run config: %w", unmarshalErr)
	}

	if validationErr := runCfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", validationErr)
	}
	return runCfg, nil
}

// resolveTool produces the tool to run: a saved one looked up by name, or a
// fresh forge from the configured request.
func resolveTool(ctx context.Context, runCfg *RunConfig, provider llm.Provider, store *tool.Store, mgr *browser.Manager, sessionID string) (tool.Tool, error) {
	if runCfg.Tool != "" {
		t, ok := store.FindByName(runCfg.Tool)
		if !ok {
			return tool.Tool{}, fmt.Errorf("no tool named %q in the collection", runCfg.Tool)
		}
		return t, nil
	}

	// Forge a tool from the request, with the loaded page as context.
	pageContext := ""
	if pc, pcErr := mgr.PageContext(ctx, sessionID, contextTokens()); pcErr != nil {
		log.Printf("Could not extract page context, forging without it: %v", pcErr)
	} else {
		pageContext = pc.PromptText()
	}

	names := make([]string, 0)
	for _, existing := range store.All() {
		names = append(names, existing.Name)
	}

	if runCfg.Model != "" && runCfg.Model != provider.GetModel() {
		if cloner, ok := provider.(llm.ModelCloner); ok {
			provider = cloner.CloneWithModel(runCfg.Model)
			log.Printf("Forging with model %s", runCfg.Model)
		}
	}

	draft, err := toolgen.NewGenerator(provider).Generate(ctx, toolgen.Request{
		Instruction:   runCfg.Request,
		PageContext:   pageContext,
		ExistingTools: names,
	})
	if err != nil {
		return tool.Tool{}, fmt.Errorf("generation failed: %w", err)
	}
	if !draft.IsUsable() {
		return tool.Tool{}, fmt.Errorf("generation produced no usable tool: %s", draft.Explanation)
	}

	log.Printf("Forged %q (%s)", draft.Name, draft.Validity)
	return toolgen.FromDraft(draft, false), nil
}

// contextTokens reads the configured page context budget, zero for default.
func contextTokens() int {
	if llmCfg := appconfig.GetLLM(); llmCfg != nil {
		return llmCfg.GetContextTokens()
	}
	return 0
}

// writeArtifacts records the outcome and optional page capture.
func writeArtifacts(mgr *browser.Manager, sessionID string, runCfg *RunConfig, t tool.Tool, result runner.Result) error {
	if runCfg.ArtifactDir == "" {
		return nil
	}
	if err := os.MkdirAll(runCfg.ArtifactDir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	artifact := runArtifact{
		Tool:     t.Name,
		URL:      runCfg.URL,
		Status:   result.Status.String(),
		Value:    result.Value,
		Detail:   result.Detail,
		Duration: result.Duration.String(),
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run artifact: %w", err)
	}
	resultPath := filepath.Join(runCfg.ArtifactDir, "result.json")
	if err := os.WriteFile(resultPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write run artifact: %w", err)
	}
	log.Printf("Wrote %s", resultPath)

	if runCfg.CapturePDF {
		pdfPath := filepath.Join(runCfg.ArtifactDir, "page.pdf")
		if err := mgr.CapturePDF(sessionID, pdfPath); err != nil {
			return fmt.Errorf("failed to capture page PDF: %w", err)
		}
		log.Printf("Wrote %s", pdfPath)
	}
	return nil
}

// printResult reports the outcome on stdout.
func printResult(t tool.Tool, result runner.Result) {
	fmt.Printf("\nTool:     %s\n", t.Name)
	fmt.Printf("Status:   %s\n", result.Status)
	fmt.Printf("Duration: %s\n", result.Duration)
	if result.Value != "" {
		fmt.Printf("Value:    %s\n", result.Value)
	}
	if result.Detail != "" {
		fmt.Printf("Detail:   %s\n", result.Detail)
	}
}
