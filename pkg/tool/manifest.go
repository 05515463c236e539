package tool

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const manifestVersion = "1"

// Manifest is the shareable YAML form of a tool collection. Trust is
// deliberately absent from the wire shape: imported tools always arrive
// untrusted no matter what a manifest claims, and trust must be granted
// again on the importing side.
type Manifest struct {
	Version string         `yaml:"version"`
	Tools   []ManifestTool `yaml:"tools"`
}

// ManifestTool mirrors Tool minus the trust flag. Visibility is a pointer
// so a hand-written manifest that omits it gets the visible-by-default
// behavior of the persisted format.
type ManifestTool struct {
	Name            string `yaml:"name"`
	Script          string `yaml:"script"`
	Description     string `yaml:"description,omitempty"`
	Icon            string `yaml:"icon,omitempty"`
	IsAutoRun       bool   `yaml:"isAutoRun,omitempty"`
	IsVisibleOnMain *bool  `yaml:"isVisibleOnMain,omitempty"`
}

func (mt *ManifestTool) validate(index int) error {
	if mt.Name == "" {
		return fmt.Errorf("tool %d: name cannot be empty", index)
	}
	if mt.Script == "" {
		return fmt.Errorf("tool %q: script cannot be empty", mt.Name)
	}
	return nil
}

// ExportManifest writes the given tools to a YAML manifest file.
func ExportManifest(path string, tools []Tool) error {
	m := Manifest{Version: manifestVersion}
	for _, t := range tools {
		visible := t.IsVisibleOnMain
		m.Tools = append(m.Tools, ManifestTool{
			Name:            t.Name,
			Script:          t.Script,
			Description:     t.Description,
			Icon:            t.Icon,
			IsAutoRun:       t.IsAutoRun,
			IsVisibleOnMain: &visible,
		})
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ImportManifest reads tools from a YAML manifest file. Every imported tool
// comes back untrusted; empty icons take the default.
func ImportManifest(path string) ([]Tool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	tools := make([]Tool, 0, len(m.Tools))
	for i, mt := range m.Tools {
		if err := mt.validate(i); err != nil {
			return nil, fmt.Errorf("invalid manifest: %w", err)
		}

		icon := mt.Icon
		if icon == "" {
			icon = DefaultIcon
		}

		tools = append(tools, Tool{
			Name:            mt.Name,
			Script:          mt.Script,
			Description:     mt.Description,
			Icon:            icon,
			IsAutoRun:       mt.IsAutoRun,
			IsVisibleOnMain: boolOr(mt.IsVisibleOnMain, true),
			IsTrusted:       false,
		})
	}
	return tools, nil
}
