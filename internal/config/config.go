// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default limits applied when neither config file nor flags set a value.
const (
	DefaultMaxJobs         = 25
	DefaultMaxApplications = 5
	DefaultMinMatchScore   = 0.5
	DefaultMinATSScore     = 0.7
	DefaultOutputDir       = "applications"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Search
	Keywords []string `json:"keywords,omitempty"`  // Search keywords
	Location string   `json:"location,omitempty"`  // Search location
	JobSites []string `json:"job_sites,omitempty"` // Boards to search (linkedin, indeed)

	// Candidate
	ProfilePath string `json:"profile,omitempty"` // Path to candidate profile JSON

	// Filtering
	MinMatchScore    float64  `json:"min_match_score,omitempty"`   // Eligibility threshold (0.0-1.0)
	RequiredSkills   []string `json:"required_skills,omitempty"`   // Skills weighted double in scoring
	ExcludedKeywords []string `json:"excluded_keywords,omitempty"` // Reject postings containing these

	// Limits
	MaxJobs         int `json:"max_jobs,omitempty"`         // Cap on postings scraped per run
	MaxApplications int `json:"max_applications,omitempty"` // Hard ceiling on applications per run

	// Generation and submission
	Provider           string  `json:"provider,omitempty"`             // Explicit LLM provider; empty = probe
	MinATSScore        float64 `json:"min_ats_score,omitempty"`        // ATS pass threshold (0.0-1.0)
	AutoOptimizeResume bool    `json:"auto_optimize_resume,omitempty"` // Re-optimize failing documents
	AutoApply          bool    `json:"auto_apply,omitempty"`           // Submit instead of staging
	OutputDir          string  `json:"output_dir,omitempty"`           // Where generated documents land

	// Behavior
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Headless browser for SPA job boards
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked after flag merging, not here.
func (c *Config) Validate() error {
	if c.MinMatchScore < 0 || c.MinMatchScore > 1 {
		return fmt.Errorf("config error: 'min_match_score' must be in [0, 1]")
	}
	if c.MinATSScore < 0 || c.MinATSScore > 1 {
		return fmt.Errorf("config error: 'min_ats_score' must be in [0, 1]")
	}
	if c.MaxJobs < 0 {
		return fmt.Errorf("config error: 'max_jobs' must be non-negative")
	}
	if c.MaxApplications < 0 {
		return fmt.Errorf("config error: 'max_applications' must be non-negative")
	}
	for _, site := range c.JobSites {
		if site != "linkedin" && site != "indeed" {
			return fmt.Errorf("config error: unsupported job site %q", site)
		}
	}
	if c.ProfilePath != "" {
		if _, err := os.Stat(c.ProfilePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.ProfilePath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if len(result.Keywords) == 0 {
		result.Keywords = defaults.Keywords
	}
	if result.Location == "" {
		result.Location = defaults.Location
	}
	if len(result.JobSites) == 0 {
		result.JobSites = defaults.JobSites
	}
	if result.ProfilePath == "" {
		result.ProfilePath = defaults.ProfilePath
	}
	if len(result.RequiredSkills) == 0 {
		result.RequiredSkills = defaults.RequiredSkills
	}
	if len(result.ExcludedKeywords) == 0 {
		result.ExcludedKeywords = defaults.ExcludedKeywords
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.MaxJobs == 0 {
		result.MaxJobs = defaults.MaxJobs
	}
	if result.MaxApplications == 0 {
		result.MaxApplications = defaults.MaxApplications
	}
	if result.MinMatchScore == 0 {
		result.MinMatchScore = defaults.MinMatchScore
	}
	if result.MinATSScore == 0 {
		result.MinATSScore = defaults.MinATSScore
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in fallback configuration.
func Defaults() Config {
	return Config{
		JobSites:        []string{"linkedin", "indeed"},
		MaxJobs:         DefaultMaxJobs,
		MaxApplications: DefaultMaxApplications,
		MinMatchScore:   DefaultMinMatchScore,
		MinATSScore:     DefaultMinATSScore,
		OutputDir:       DefaultOutputDir,
	}
}
