package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/generate"
	"github.com/jonathan/apply-agent/internal/pipeline"
	"github.com/jonathan/apply-agent/internal/profile"
	"github.com/jonathan/apply-agent/internal/provider"
	"github.com/jonathan/apply-agent/internal/render"
	"github.com/jonathan/apply-agent/internal/scrape"
	"github.com/jonathan/apply-agent/internal/submit"
	"github.com/jonathan/apply-agent/internal/tracker"
	"github.com/jonathan/apply-agent/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full application pipeline end-to-end",
	Long: `Orchestrates the application process: search -> scrape -> score/filter -> generate -> apply.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath       string
	runKeywords         []string
	runLocation         string
	runJobSites         []string
	runProfilePath      string
	runRequiredSkills   []string
	runExcludedKeywords []string
	runMinMatchScore    float64
	runMinATSScore      float64
	runMaxJobs          int
	runMaxApplications  int
	runProvider         string
	runOutputDir        string
	runAutoApply        bool
	runAutoOptimize     bool
	runUseBrowser       bool
	runVerbose          bool
	runDatabaseURL      string
	runDemo             bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringSliceVarP(&runKeywords, "keywords", "k", nil, "Search keywords")
	runCommand.Flags().StringVarP(&runLocation, "location", "l", "", "Search location")
	runCommand.Flags().StringSliceVar(&runJobSites, "job-sites", nil, "Job boards to search (linkedin, indeed)")
	runCommand.Flags().StringVarP(&runProfilePath, "profile", "p", "", "Path to candidate profile JSON")
	runCommand.Flags().StringSliceVar(&runRequiredSkills, "required-skills", nil, "Skills weighted double when scoring")
	runCommand.Flags().StringSliceVar(&runExcludedKeywords, "excluded-keywords", nil, "Reject postings containing these keywords")
	runCommand.Flags().Float64Var(&runMinMatchScore, "min-match-score", 0, "Minimum match score for eligibility (0.0-1.0)")
	runCommand.Flags().Float64Var(&runMinATSScore, "min-ats-score", 0, "ATS pass threshold for generated documents (0.0-1.0)")
	runCommand.Flags().IntVar(&runMaxJobs, "max-jobs", 0, "Maximum postings to scrape per run")
	runCommand.Flags().IntVar(&runMaxApplications, "max-applications", 0, "Hard ceiling on applications per run")
	runCommand.Flags().StringVar(&runProvider, "provider", "", "LLM provider (openai, groq, openrouter, gemini, local); default probes credentials")
	runCommand.Flags().StringVarP(&runOutputDir, "output-dir", "o", "", "Directory for generated documents")
	runCommand.Flags().BoolVar(&runAutoApply, "auto-apply", false, "Submit applications instead of staging for manual review")
	runCommand.Flags().BoolVar(&runAutoOptimize, "auto-optimize-resume", false, "Re-optimize documents that fail the ATS threshold")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().BoolVar(&runDemo, "demo", false, "Use deterministic sample postings instead of live job boards")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply defaults for values the config file left unset
	cfg = cfg.MergeWithDefaults(config.Defaults())

	// Step 3: Apply CLI overrides (command-line args take priority, and an
	// explicitly passed zero must survive the defaulting above)
	cfg = applyFlagOverrides(cmd, cfg)

	// Step 4: Validate required fields
	if len(cfg.Keywords) == 0 {
		return fmt.Errorf("--keywords must be provided (via flag or config)")
	}
	if cfg.ProfilePath == "" && !runDemo {
		return fmt.Errorf("--profile must be provided (via flag or config); or use --demo")
	}

	// Step 5: Candidate profile
	candidate, err := loadCandidate(cfg.ProfilePath, runDemo)
	if err != nil {
		return err
	}

	// Step 6: Database URL handling; absence degrades to in-memory tracking
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	store := openStore(ctx, cfg.DatabaseURL, cfg.Verbose)
	defer store.Close()

	tr, err := tracker.New(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to initialize tracker: %w", err)
	}

	// Step 7: Assemble collaborators
	router := provider.NewRouter(ctx, provider.ResolveFromEnv(provider.Provider(cfg.Provider)))
	defer router.Close()
	if cfg.Verbose {
		fmt.Printf("Using provider: %s\n", router.Provider())
	}

	fetcher := fetch.NewCachedFetcher(nil, 0)
	searchers := buildSearchers(cfg.JobSites, fetcher, runDemo)

	details := scrape.NewDetailScraper(fetcher)
	details.UseBrowser = cfg.UseBrowser
	details.Verbose = cfg.Verbose

	gen := generate.NewGenerator(router, render.NewFileRenderer(cfg.OutputDir))

	var submitter submit.Submitter = submit.ManualSubmitter{}
	if runDemo && cfg.AutoApply {
		submitter = submit.LoggingSubmitter{Outcome: true}
	}

	p := pipeline.New(tr, searchers, details, gen, submitter, candidate)

	report, err := p.Run(ctx, pipeline.RunOptions{
		Keywords:         cfg.Keywords,
		Location:         cfg.Location,
		MaxJobs:          cfg.MaxJobs,
		MaxApplications:  cfg.MaxApplications,
		MinMatchScore:    cfg.MinMatchScore,
		MinATSScore:      cfg.MinATSScore,
		RequiredSkills:   cfg.RequiredSkills,
		ExcludedKeywords: cfg.ExcludedKeywords,
		AutoApply:        cfg.AutoApply,
		AutoOptimize:     cfg.AutoOptimizeResume,
		Verbose:          cfg.Verbose,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Done! %d application(s) submitted this run.\n", report.Submitted)
	return nil
}

// applyFlagOverrides writes every flag the user explicitly set over the
// merged configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg config.Config) config.Config {
	if cmd.Flags().Changed("keywords") {
		cfg.Keywords = runKeywords
	}
	if cmd.Flags().Changed("location") {
		cfg.Location = runLocation
	}
	if cmd.Flags().Changed("job-sites") {
		cfg.JobSites = runJobSites
	}
	if cmd.Flags().Changed("profile") {
		cfg.ProfilePath = runProfilePath
	}
	if cmd.Flags().Changed("required-skills") {
		cfg.RequiredSkills = runRequiredSkills
	}
	if cmd.Flags().Changed("excluded-keywords") {
		cfg.ExcludedKeywords = runExcludedKeywords
	}
	if cmd.Flags().Changed("min-match-score") {
		cfg.MinMatchScore = runMinMatchScore
	}
	if cmd.Flags().Changed("min-ats-score") {
		cfg.MinATSScore = runMinATSScore
	}
	if cmd.Flags().Changed("max-jobs") {
		cfg.MaxJobs = runMaxJobs
	}
	if cmd.Flags().Changed("max-applications") {
		cfg.MaxApplications = runMaxApplications
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = runProvider
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("auto-apply") {
		cfg.AutoApply = runAutoApply
	}
	if cmd.Flags().Changed("auto-optimize-resume") {
		cfg.AutoOptimizeResume = runAutoOptimize
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	return cfg
}

// loadCandidate reads the profile file, or falls back to the built-in demo
// candidate when --demo is set and no profile was given.
func loadCandidate(path string, demo bool) (*types.CandidateProfile, error) {
	if path != "" {
		candidate, err := profile.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load candidate profile: %w", err)
		}
		return candidate, nil
	}
	if !demo {
		return nil, fmt.Errorf("no candidate profile available")
	}
	return &types.CandidateProfile{
		Name:     "Demo Candidate",
		Email:    "demo@example.com",
		Location: "Remote",
		Summary:  "Backend engineer focused on distributed systems.",
		Skills: []types.CandidateSkill{
			{Name: "go", Category: "technical"},
			{Name: "python", Category: "technical"},
			{Name: "sql", Category: "technical"},
			{Name: "docker", Category: "technical"},
			{Name: "kubernetes", Category: "technical"},
		},
	}, nil
}

// openStore connects to Postgres when configured, warning and degrading to
// the in-memory store on any failure.
func openStore(ctx context.Context, databaseURL string, verbose bool) tracker.Store {
	if databaseURL == "" {
		if verbose {
			fmt.Printf("No DATABASE_URL set; tracking applications in memory for this run.\n")
		}
		return tracker.NewMemoryStore()
	}
	store, err := tracker.ConnectPostgres(ctx, databaseURL)
	if err != nil {
		fmt.Printf("Warning: Failed to connect to database: %v\n", err)
		fmt.Printf("Continuing with in-memory tracking...\n")
		return tracker.NewMemoryStore()
	}
	if verbose {
		fmt.Printf("Connected to database\n")
	}
	return store
}

// buildSearchers maps configured job sites to searcher implementations.
func buildSearchers(sites []string, fetcher *fetch.CachedFetcher, demo bool) []scrape.Searcher {
	if demo {
		return []scrape.Searcher{scrape.SampleSearcher{}}
	}
	var searchers []scrape.Searcher
	for _, site := range sites {
		switch site {
		case "linkedin":
			searchers = append(searchers, scrape.NewLinkedInSearcher(fetcher))
		case "indeed":
			searchers = append(searchers, scrape.NewIndeedSearcher(fetcher))
		}
	}
	return searchers
}
