package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSiteRulesSection(t *testing.T) {
	section := NewSiteRulesSection()
	assert.Equal(t, SectionIDSites, section.ID())
	assert.Empty(t, section.AllowedSites())
	assert.Empty(t, section.DeniedSites())
	assert.NoError(t, section.Validate())
}

func TestSiteRulesSection_AddAndRemove(t *testing.T) {
	section := NewSiteRulesSection()

	require.NoError(t, section.AllowSite("*.github.com"))
	require.NoError(t, section.AllowSite("docs.example.com"))
	require.NoError(t, section.DenySite("*.tracker.example"))

	assert.Equal(t, []string{"*.github.com", "docs.example.com"}, section.AllowedSites())
	assert.Equal(t, []string{"*.tracker.example"}, section.DeniedSites())

	require.NoError(t, section.RemoveAllowedSite(0))
	assert.Equal(t, []string{"docs.example.com"}, section.AllowedSites())

	require.NoError(t, section.RemoveDeniedSite(0))
	assert.Empty(t, section.DeniedSites())

	assert.Error(t, section.RemoveAllowedSite(3), "out-of-range index")
}

func TestSiteRulesSection_RejectsBadPatterns(t *testing.T) {
	section := NewSiteRulesSection()

	assert.Error(t, section.AllowSite(""))
	assert.Error(t, section.AllowSite("[unclosed"))
	assert.Error(t, section.DenySite("[unclosed"))
	assert.Empty(t, section.AllowedSites())
	assert.Empty(t, section.DeniedSites())
}

func TestSiteRulesSection_IgnoresDuplicates(t *testing.T) {
	section := NewSiteRulesSection()

	require.NoError(t, section.AllowSite("*.github.com"))
	require.NoError(t, section.AllowSite("*.github.com"))
	assert.Len(t, section.AllowedSites(), 1)
}

func TestSiteRulesSection_SetData(t *testing.T) {
	section := NewSiteRulesSection()

	err := section.SetData(map[string]interface{}{
		"allowedSites": []interface{}{"*.github.com"},
		"deniedSites":  []interface{}{"ads.example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"*.github.com"}, section.AllowedSites())
	assert.Equal(t, []string{"ads.example.com"}, section.DeniedSites())

	assert.Error(t, section.SetData(map[string]interface{}{
		"allowedSites": "not-a-list",
	}))
	assert.Error(t, section.SetData(map[string]interface{}{
		"deniedSites": []interface{}{7},
	}))
}

func TestSiteRulesSection_ValidateCatchesStoredJunk(t *testing.T) {
	section := NewSiteRulesSection()

	// SetData accepts any strings; Validate compiles them
	require.NoError(t, section.SetData(map[string]interface{}{
		"allowedSites": []interface{}{"[unclosed"},
	}))
	assert.Error(t, section.Validate())
}

func TestSiteRulesSection_Reset(t *testing.T) {
	section := NewSiteRulesSection()
	require.NoError(t, section.AllowSite("*.github.com"))
	require.NoError(t, section.DenySite("ads.example.com"))

	section.Reset()

	assert.Empty(t, section.AllowedSites())
	assert.Empty(t, section.DeniedSites())
}

func TestSiteRulesSection_FeedsTheGuard(t *testing.T) {
	section := NewSiteRulesSection()
	require.NoError(t, section.AllowSite("*.github.com"))
	require.NoError(t, section.DenySite("gist.github.com"))

	// The section's lists are the guard's constructor inputs
	assert.Equal(t, map[string]interface{}{
		"allowedSites": []string{"*.github.com"},
		"deniedSites":  []string{"gist.github.com"},
	}, section.Data())
}

func TestSiteRulesSection_Persistence(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	store, err := NewFileStore(tmpFile)
	require.NoError(t, err)

	manager := NewManager(store)
	section := NewSiteRulesSection()
	require.NoError(t, manager.RegisterSection(section))

	require.NoError(t, section.AllowSite("*.wikipedia.org"))
	require.NoError(t, manager.SaveAll())

	newStore, err := NewFileStore(tmpFile)
	require.NoError(t, err)
	newManager := NewManager(newStore)
	newSection := NewSiteRulesSection()
	require.NoError(t, newManager.RegisterSection(newSection))
	require.NoError(t, newManager.LoadAll())

	assert.Equal(t, []string{"*.wikipedia.org"}, newSection.AllowedSites())
}
