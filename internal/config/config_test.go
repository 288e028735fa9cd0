package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"keywords": ["backend", "go"],
		"location": "Remote",
		"job_sites": ["linkedin"],
		"min_match_score": 0.6,
		"max_applications": 3,
		"auto_apply": true,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"backend", "go"}, cfg.Keywords)
	assert.Equal(t, "Remote", cfg.Location)
	assert.Equal(t, []string{"linkedin"}, cfg.JobSites)
	assert.Equal(t, 0.6, cfg.MinMatchScore)
	assert.Equal(t, 3, cfg.MaxApplications)
	assert.True(t, cfg.AutoApply)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate_ScoreRanges(t *testing.T) {
	cfg := Config{MinMatchScore: 1.5}
	assert.Error(t, cfg.Validate())

	cfg = Config{MinATSScore: -0.1}
	assert.Error(t, cfg.Validate())

	cfg = Config{MinMatchScore: 0.5, MinATSScore: 0.7}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NegativeLimits(t *testing.T) {
	cfg := Config{MaxJobs: -1}
	assert.Error(t, cfg.Validate())

	cfg = Config{MaxApplications: -2}
	assert.Error(t, cfg.Validate())
}

func TestValidate_UnsupportedJobSite(t *testing.T) {
	cfg := Config{JobSites: []string{"linkedin", "monster"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monster")
}

func TestValidate_MissingProfileFile(t *testing.T) {
	cfg := Config{ProfilePath: "/nonexistent/profile.json"}
	assert.Error(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Location: "NYC", MaxApplications: 2}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "NYC", merged.Location, "explicit value kept")
	assert.Equal(t, 2, merged.MaxApplications, "explicit value kept")
	assert.Equal(t, []string{"linkedin", "indeed"}, merged.JobSites)
	assert.Equal(t, DefaultMaxJobs, merged.MaxJobs)
	assert.Equal(t, DefaultMinMatchScore, merged.MinMatchScore)
	assert.Equal(t, DefaultMinATSScore, merged.MinATSScore)
	assert.Equal(t, DefaultOutputDir, merged.OutputDir)
}

func TestMergeWithDefaults_SlicesKept(t *testing.T) {
	cfg := Config{RequiredSkills: []string{"go"}}
	merged := cfg.MergeWithDefaults(Config{RequiredSkills: []string{"java"}, ExcludedKeywords: []string{"unpaid"}})

	assert.Equal(t, []string{"go"}, merged.RequiredSkills)
	assert.Equal(t, []string{"unpaid"}, merged.ExcludedKeywords)
}
