package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/scrape"
	"github.com/jonathan/apply-agent/internal/tracker"
)

func TestLoadCandidate_DemoFallback(t *testing.T) {
	candidate, err := loadCandidate("", true)
	require.NoError(t, err)
	assert.Equal(t, "Demo Candidate", candidate.Name)
	assert.NotEmpty(t, candidate.Skills)
}

func TestLoadCandidate_NoProfileNoDemo(t *testing.T) {
	_, err := loadCandidate("", false)
	assert.Error(t, err)
}

func TestLoadCandidate_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	content := `{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"skills": [{"name": "go", "category": "technical"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	candidate, err := loadCandidate(path, false)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", candidate.Name)
}

func TestLoadCandidate_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"email": "no-name@example.com"}`), 0o644))

	_, err := loadCandidate(path, false)
	assert.Error(t, err)
}

func TestBuildSearchers(t *testing.T) {
	fetcher := fetch.NewCachedFetcher(nil, 0)

	searchers := buildSearchers([]string{"linkedin", "indeed", "monster"}, fetcher, false)
	require.Len(t, searchers, 2, "unknown sites are ignored")
	assert.Equal(t, "linkedin", searchers[0].Source())
	assert.Equal(t, "indeed", searchers[1].Source())

	demo := buildSearchers([]string{"linkedin"}, fetcher, true)
	require.Len(t, demo, 1)
	assert.IsType(t, scrape.SampleSearcher{}, demo[0])
}

func TestApplyFlagOverrides_ExplicitZeroSurvivesDefaults(t *testing.T) {
	require.NoError(t, runCommand.Flags().Set("min-match-score", "0"))
	require.NoError(t, runCommand.Flags().Set("max-applications", "0"))
	t.Cleanup(func() {
		runCommand.Flags().Lookup("min-match-score").Changed = false
		runCommand.Flags().Lookup("max-applications").Changed = false
	})

	cfg := applyFlagOverrides(runCommand, (&config.Config{}).MergeWithDefaults(config.Defaults()))

	assert.Zero(t, cfg.MinMatchScore, "an explicit zero is a real setting, not an unset field")
	assert.Zero(t, cfg.MaxApplications)
	assert.Equal(t, config.Defaults().MinATSScore, cfg.MinATSScore, "untouched fields keep their defaults")
	assert.Equal(t, config.Defaults().MaxJobs, cfg.MaxJobs)
}

func TestOpenStore_NoURLUsesMemory(t *testing.T) {
	store := openStore(context.Background(), "", false)
	defer store.Close()

	assert.IsType(t, &tracker.MemoryStore{}, store)
}
