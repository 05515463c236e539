package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestNewFileStore(t *testing.T) {
	t.Run("creates store with custom path", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.json")

		store, err := NewFileStore(configPath)
		if err != nil {
			t.Fatalf("NewFileStore failed: %v", err)
		}

		if store.Path() != configPath {
			t.Errorf("Expected path %s, got %s", configPath, store.Path())
		}
		if store.IsModified() {
			t.Error("New store should not be modified")
		}
	})

	t.Run("defaults to the anvil config path", func(t *testing.T) {
		store, err := NewFileStore("")
		if err != nil {
			t.Fatalf("NewFileStore with empty path failed: %v", err)
		}

		homeDir, _ := os.UserHomeDir()
		expectedPath := filepath.Join(homeDir, ".anvil", "config.json")

		if store.Path() != expectedPath {
			t.Errorf("Expected default path %s, got %s", expectedPath, store.Path())
		}
	})

	t.Run("loads an existing config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.json")

		raw, _ := json.MarshalIndent(map[string]interface{}{
			"version": "1.0",
			"sections": map[string]map[string]interface{}{
				"browser": {"homeURL": "https://example.com"},
			},
		}, "", "  ")
		if err := os.WriteFile(configPath, raw, 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		store, err := NewFileStore(configPath)
		if err != nil {
			t.Fatalf("NewFileStore failed: %v", err)
		}

		section, err := store.GetSection("browser")
		if err != nil {
			t.Fatalf("GetSection failed: %v", err)
		}
		if section["homeURL"] != "https://example.com" {
			t.Errorf("Expected stored home URL, got %v", section["homeURL"])
		}
	})
}

func TestFileStore_Load(t *testing.T) {
	t.Run("loads every section", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.json")

		raw, _ := json.MarshalIndent(map[string]interface{}{
			"version": "1.0",
			"sections": map[string]map[string]interface{}{
				"section1": {"key1": "value1"},
				"section2": {"key2": "value2"},
			},
		}, "", "  ")
		if err := os.WriteFile(configPath, raw, 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		store := &FileStore{path: configPath}
		if err := store.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		section1, _ := store.GetSection("section1")
		section2, _ := store.GetSection("section2")
		if section1["key1"] != "value1" || section2["key2"] != "value2" {
			t.Error("Sections not loaded correctly")
		}
	})

	t.Run("treats a missing file as empty", func(t *testing.T) {
		store := &FileStore{path: filepath.Join(t.TempDir(), "nonexistent.json")}
		if err := store.Load(); err != nil {
			t.Fatalf("Load should not fail for a missing file: %v", err)
		}

		all, _ := store.GetAll()
		if len(all) != 0 {
			t.Error("Expected empty config for a missing file")
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.json")
		if err := os.WriteFile(configPath, []byte("{invalid json}"), 0644); err != nil {
			t.Fatalf("Failed to write invalid JSON: %v", err)
		}

		store := &FileStore{path: configPath}
		if err := store.Load(); err == nil {
			t.Error("Load should fail for malformed JSON")
		}
	})
}

func TestFileStore_Save(t *testing.T) {
	t.Run("writes the versioned envelope", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.json")
		store, _ := NewFileStore(configPath)

		if err := store.SetSection("browser", map[string]interface{}{"sandboxEnabled": true}); err != nil {
			t.Fatalf("SetSection failed: %v", err)
		}
		if err := store.Save(); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		raw, err := os.ReadFile(configPath)
		if err != nil {
			t.Fatalf("Failed to read saved config: %v", err)
		}

		var envelope map[string]interface{}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("Saved config is not valid JSON: %v", err)
		}
		if envelope["version"] != "1.0" {
			t.Error("Version not saved correctly")
		}

		sections, ok := envelope["sections"].(map[string]interface{})
		if !ok {
			t.Fatal("Sections not saved correctly")
		}
		browser, ok := sections["browser"].(map[string]interface{})
		if !ok {
			t.Fatal("Browser section not found")
		}
		if browser["sandboxEnabled"] != true {
			t.Error("Section data not saved correctly")
		}
	})

	t.Run("creates missing directories", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "nested", "dir", "config.json")
		store, _ := NewFileStore(configPath)
		store.SetSection("test", map[string]interface{}{"key": "value"})

		if err := store.Save(); err != nil {
			t.Fatalf("Save should create nested directories: %v", err)
		}
		if _, err := os.Stat(configPath); err != nil {
			t.Errorf("Config file not written: %v", err)
		}
	})

	t.Run("leaves no temp file behind", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.json")
		store, _ := NewFileStore(configPath)
		store.SetSection("test", map[string]interface{}{"key": "value"})

		if err := store.Save(); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Name() != "config.json" {
			t.Errorf("Expected only config.json in %s, got %v", dir, entries)
		}
	})

	t.Run("clears the modified flag", func(t *testing.T) {
		store, _ := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
		store.SetSection("test", map[string]interface{}{"key": "value"})

		if !store.IsModified() {
			t.Error("Store should be modified after SetSection")
		}
		if err := store.Save(); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if store.IsModified() {
			t.Error("Store should not be modified after Save")
		}
	})
}

func TestFileStore_Sections(t *testing.T) {
	t.Run("missing section yields an empty map", func(t *testing.T) {
		store := &FileStore{data: make(map[string]map[string]interface{})}

		section, err := store.GetSection("nonexistent")
		if err != nil {
			t.Fatalf("GetSection failed: %v", err)
		}
		if len(section) != 0 {
			t.Error("Expected empty map for missing section")
		}
	})

	t.Run("GetSection returns a copy", func(t *testing.T) {
		store := &FileStore{
			data: map[string]map[string]interface{}{
				"test": {"key": "value"},
			},
		}

		first, _ := store.GetSection("test")
		first["key"] = "modified"

		second, _ := store.GetSection("test")
		if second["key"] == "modified" {
			t.Error("External modification affected store data")
		}
	})

	t.Run("SetSection stores a copy", func(t *testing.T) {
		store := &FileStore{data: make(map[string]map[string]interface{})}

		input := map[string]interface{}{"key": "value"}
		store.SetSection("test", input)
		input["key"] = "modified"

		section, _ := store.GetSection("test")
		if section["key"] == "modified" {
			t.Error("External modification affected store data")
		}
	})
}

func TestFileStore_GetAll(t *testing.T) {
	store := &FileStore{
		data: map[string]map[string]interface{}{
			"section1": {"key1": "value1"},
			"section2": {"key2": "value2"},
		},
	}

	all, err := store.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 sections, got %d", len(all))
	}

	// Mutating the result must not reach the store
	all["section1"]["key1"] = "modified"
	section, _ := store.GetSection("section1")
	if section["key1"] == "modified" {
		t.Error("GetAll should return a deep copy")
	}
}

func TestFileStore_SetAll(t *testing.T) {
	store := &FileStore{data: make(map[string]map[string]interface{})}

	input := map[string]map[string]interface{}{
		"section1": {"key1": "value1"},
		"section2": {"key2": "value2"},
	}
	if err := store.SetAll(input); err != nil {
		t.Fatalf("SetAll failed: %v", err)
	}

	all, _ := store.GetAll()
	if len(all) != 2 {
		t.Error("Not all sections were set")
	}

	// Mutating the input must not reach the store
	input["section1"]["key1"] = "modified"
	section, _ := store.GetSection("section1")
	if section["key1"] == "modified" {
		t.Error("SetAll should store a deep copy")
	}
}
