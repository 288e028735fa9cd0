// Package pipeline provides the high-level orchestration of a job application
// run: Search → Scrape → Score/Filter → Generate → Apply. Stage failures on
// one job never abort the run; the tracker holds the authoritative end state
// for every job touched.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/apply-agent/internal/errs"
	"github.com/jonathan/apply-agent/internal/generate"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/retry"
	"github.com/jonathan/apply-agent/internal/scoring"
	"github.com/jonathan/apply-agent/internal/scrape"
	"github.com/jonathan/apply-agent/internal/submit"
	"github.com/jonathan/apply-agent/internal/tracker"
	"github.com/jonathan/apply-agent/internal/types"
)

var validate = validator.New()

// RunOptions holds configuration for one pipeline run.
type RunOptions struct {
	Keywords         []string `validate:"required,min=1"`
	Location         string
	MaxJobs          int     `validate:"gte=0"`
	MaxApplications  int     `validate:"gte=0"`
	MinMatchScore    float64 `validate:"gte=0,lte=1"`
	MinATSScore      float64 `validate:"gte=0,lte=1"`
	RequiredSkills   []string
	ExcludedKeywords []string
	AutoApply        bool
	AutoOptimize     bool
	Verbose          bool
}

// RunReport summarizes one run. The tracker remains the source of truth;
// this only counts what this invocation did.
type RunReport struct {
	Discovered  int
	Detailed    int
	Eligible    int
	FilteredOut int
	Submitted   int
	Failures    int
}

// Pipeline wires the stages to their collaborators.
type Pipeline struct {
	Tracker   *tracker.Tracker
	Searchers []scrape.Searcher
	Details   *scrape.DetailScraper
	Generator *generate.Generator
	Submitter submit.Submitter
	Profile   *types.CandidateProfile
	Printer   *observability.Printer
	// Policy governs retries on the submission call; searchers and the
	// provider router carry their own.
	Policy retry.Policy
}

// New builds a pipeline. Collaborators are checked in Setup, not here.
func New(tr *tracker.Tracker, searchers []scrape.Searcher, details *scrape.DetailScraper, gen *generate.Generator, sub submit.Submitter, profile *types.CandidateProfile) *Pipeline {
	return &Pipeline{
		Tracker:   tr,
		Searchers: searchers,
		Details:   details,
		Generator: gen,
		Submitter: sub,
		Profile:   profile,
		Printer:   observability.NewPrinter(os.Stdout),
		Policy:    retry.DefaultPolicy(),
	}
}

// Setup reports whether every collaborator the stages need is present.
func (p *Pipeline) Setup() bool {
	ok := true
	if p.Tracker == nil {
		log.Printf("[pipeline] no tracker configured")
		ok = false
	}
	if len(p.Searchers) == 0 {
		log.Printf("[pipeline] no job sources configured")
		ok = false
	}
	if p.Details == nil {
		log.Printf("[pipeline] no detail scraper configured")
		ok = false
	}
	if p.Generator == nil {
		log.Printf("[pipeline] no document generator configured")
		ok = false
	}
	if p.Submitter == nil {
		log.Printf("[pipeline] no submitter configured")
		ok = false
	}
	if p.Profile == nil {
		log.Printf("[pipeline] no candidate profile configured")
		ok = false
	}
	return ok
}

// SearchJobs discovers postings across every configured source and registers
// each with the tracker.
func (p *Pipeline) SearchJobs(ctx context.Context, opts RunOptions) ([]types.JobPosting, error) {
	query := scrape.Query{Keywords: opts.Keywords, Location: opts.Location, Limit: opts.MaxJobs}

	postings, err := scrape.SearchAll(ctx, p.Searchers, query)
	if err != nil {
		return nil, fmt.Errorf("job search failed: %w", err)
	}

	for i := range postings {
		_, err := p.Tracker.GetOrCreate(ctx, postings[i].JobID, tracker.JobMetadata{
			JobTitle: postings[i].Title,
			Company:  postings[i].Company,
			Source:   postings[i].Source,
			URL:      postings[i].URL,
			Location: postings[i].Location,
		})
		if err != nil {
			log.Printf("[pipeline] tracking %s failed: %v", postings[i].JobID, err)
		}
	}

	if opts.Verbose {
		p.Printer.PrintPostings(postings)
	}
	return postings, nil
}

// recordSearch appends the run's search to history once the filter counts
// are known. Failures are only logged.
func (p *Pipeline) recordSearch(ctx context.Context, opts RunOptions, found, filteredOut int) {
	if err := p.Tracker.RecordSearch(ctx, tracker.SearchRecord{
		Keywords:      opts.Keywords,
		Location:      opts.Location,
		Source:        sourcesLabel(p.Searchers),
		ResultsCount:  found,
		FilteredCount: filteredOut,
		SearchedAt:    time.Now().UTC(),
	}); err != nil {
		log.Printf("[pipeline] recording search history failed: %v", err)
	}
}

// ScrapeJobDetails fills descriptions for up to maxJobs postings. A job whose
// scrape fails is marked errored and dropped from the working set.
func (p *Pipeline) ScrapeJobDetails(ctx context.Context, postings []types.JobPosting, maxJobs int) []types.JobPosting {
	if maxJobs > 0 && len(postings) > maxJobs {
		postings = postings[:maxJobs]
	}

	detailed, failed := p.Details.ScrapeDetails(ctx, postings)

	out := make([]types.JobPosting, 0, len(detailed))
	for _, job := range detailed {
		if scrapeErr, ok := failed[job.JobID]; ok {
			p.markJobError(ctx, job.JobID, fmt.Sprintf("detail scrape failed: %v", scrapeErr))
			continue
		}
		if err := p.Tracker.UpdateStatus(ctx, job.JobID, tracker.StatusDetailed, ""); err != nil {
			if !p.resumableAt(ctx, job.JobID, err) {
				continue
			}
		}
		out = append(out, job)
	}
	return out
}

// FilterJobs scores each detailed posting and splits eligible from filtered.
func (p *Pipeline) FilterJobs(ctx context.Context, postings []types.JobPosting, opts RunOptions) ([]types.JobPosting, int) {
	criteria := scoring.Criteria{
		MinMatchScore:    opts.MinMatchScore,
		RequiredSkills:   opts.RequiredSkills,
		ExcludedKeywords: opts.ExcludedKeywords,
	}

	var eligible []types.JobPosting
	filteredOut := 0

	for _, job := range postings {
		result := scoring.Evaluate(job.Description, p.Profile, criteria)
		if opts.Verbose {
			p.Printer.PrintScore(job, result)
		}

		if err := p.Tracker.RecordScore(ctx, job.JobID, result); err != nil {
			if p.resumableAt(ctx, job.JobID, err) {
				eligible = append(eligible, job)
			}
			continue
		}

		if result.Pass {
			if err := p.Tracker.UpdateStatus(ctx, job.JobID, tracker.StatusEligible, ""); err != nil {
				log.Printf("[pipeline] %s: %v", job.JobID, err)
				continue
			}
			eligible = append(eligible, job)
		} else {
			if err := p.Tracker.UpdateStatus(ctx, job.JobID, tracker.StatusFilteredOut, result.Reason); err != nil {
				log.Printf("[pipeline] %s: %v", job.JobID, err)
				continue
			}
			filteredOut++
		}
	}
	return eligible, filteredOut
}

// GenerateAndApply processes eligible jobs up to the application ceiling.
// Jobs beyond the ceiling are left in eligible state so a later run resumes
// them. Returns the number of applications actually submitted.
func (p *Pipeline) GenerateAndApply(ctx context.Context, eligible []types.JobPosting, opts RunOptions) int {
	submitted := 0
	applied := 0

	for _, job := range eligible {
		if opts.MaxApplications > 0 && applied >= opts.MaxApplications {
			break
		}
		if err := ctx.Err(); err != nil {
			break
		}

		if p.applyToJob(ctx, job, opts) {
			submitted++
		}
		applied++
	}
	return submitted
}

// applyToJob runs generation and submission for one job. Returns true only
// when the application was actually submitted.
func (p *Pipeline) applyToJob(ctx context.Context, job types.JobPosting, opts RunOptions) bool {
	result := p.Generator.GenerateDocuments(ctx, job, p.Profile, opts.RequiredSkills, generate.Options{
		MinATSScore:  opts.MinATSScore,
		AutoOptimize: opts.AutoOptimize,
	})

	if err := p.Tracker.RecordDocuments(ctx, job.JobID, result.ResumePath, result.CoverLetterPath, result.ATSScore); err != nil {
		log.Printf("[pipeline] %s: recording documents failed: %v", job.JobID, err)
		p.markJobError(ctx, job.JobID, fmt.Sprintf("recording documents failed: %v", err))
		return false
	}

	// Nothing to submit when generation degraded to empty content.
	if !opts.AutoApply || result.ResumePath == "" {
		if err := p.Tracker.RecordSubmission(ctx, job.JobID, false); err != nil {
			log.Printf("[pipeline] %s: %v", job.JobID, err)
		}
		return false
	}

	var outcome bool
	err := p.Policy.Do(ctx, "submit "+job.JobID, func(ctx context.Context) error {
		applied, applyErr := p.Submitter.Apply(ctx, job.JobID, result.ResumePath, result.CoverLetterPath)
		if applyErr != nil {
			return applyErr
		}
		outcome = applied
		return nil
	})
	if err != nil {
		log.Printf("[pipeline] %s: submission failed: %v", job.JobID, err)
		if updateErr := p.Tracker.UpdateStatus(ctx, job.JobID, tracker.StatusFailed, fmt.Sprintf("submission failed: %v", err)); updateErr != nil {
			log.Printf("[pipeline] %s: %v", job.JobID, updateErr)
		}
		return false
	}

	if err := p.Tracker.RecordSubmission(ctx, job.JobID, outcome); err != nil {
		log.Printf("[pipeline] %s: %v", job.JobID, err)
		return false
	}
	return outcome
}

// Run executes the full pipeline and returns the run report.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid run options: %w", err)
	}
	if !p.Setup() {
		return nil, &errs.ConfigurationError{Component: "pipeline", Message: "missing collaborators"}
	}

	report := &RunReport{}

	fmt.Printf("Step 1/4: Searching for jobs (%v in %q)...\n", opts.Keywords, opts.Location)
	postings, err := p.SearchJobs(ctx, opts)
	if err != nil {
		return nil, err
	}
	report.Discovered = len(postings)
	if len(postings) == 0 {
		fmt.Printf("No jobs found. Nothing to do.\n")
		p.recordSearch(ctx, opts, 0, 0)
		p.printSummary(report)
		return report, nil
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	fmt.Printf("Step 2/4: Scraping details for up to %d jobs...\n", opts.MaxJobs)
	detailed := p.ScrapeJobDetails(ctx, postings, opts.MaxJobs)
	report.Detailed = len(detailed)
	report.Failures += report.Discovered - report.Detailed
	if err := ctx.Err(); err != nil {
		return report, err
	}

	fmt.Printf("Step 3/4: Scoring and filtering %d jobs (min match %.2f)...\n", len(detailed), opts.MinMatchScore)
	eligible, filteredOut := p.FilterJobs(ctx, detailed, opts)
	report.Eligible = len(eligible)
	report.FilteredOut = filteredOut
	p.recordSearch(ctx, opts, report.Discovered, filteredOut)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	fmt.Printf("Step 4/4: Generating documents and applying (cap %d, auto-apply %t)...\n", opts.MaxApplications, opts.AutoApply)
	report.Submitted = p.GenerateAndApply(ctx, eligible, opts)

	p.printSummary(report)
	return report, nil
}

func (p *Pipeline) printSummary(report *RunReport) {
	p.Printer.PrintRunSummary(p.Tracker.GetApplicationStats(), report.Submitted)
}

// markJobError moves a job to the terminal error status; failures to do so
// are only logged.
func (p *Pipeline) markJobError(ctx context.Context, jobID, note string) {
	if err := p.Tracker.UpdateStatus(ctx, jobID, tracker.StatusError, note); err != nil {
		log.Printf("[pipeline] %s: marking error failed: %v", jobID, err)
	}
}

// resumableAt decides what to do with a job whose transition was rejected.
// A job left eligible by a previous run skips straight to generation; any
// other state means the job already progressed past this run's reach.
func (p *Pipeline) resumableAt(ctx context.Context, jobID string, cause error) bool {
	if !errs.IsStateViolation(cause) {
		log.Printf("[pipeline] %s: %v", jobID, cause)
		return false
	}
	app, err := p.Tracker.Get(ctx, jobID)
	if err != nil {
		log.Printf("[pipeline] %s: %v", jobID, err)
		return false
	}
	if app.Status == tracker.StatusEligible {
		return true
	}
	log.Printf("[pipeline] %s already %s, skipping", jobID, app.Status)
	return false
}

func sourcesLabel(searchers []scrape.Searcher) string {
	label := ""
	for i, s := range searchers {
		if i > 0 {
			label += ","
		}
		label += s.Source()
	}
	return label
}
