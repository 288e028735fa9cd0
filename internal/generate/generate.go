// Package generate produces tailored resumes and cover letters through the
// provider router and runs the bounded ATS re-optimization loop.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/apply-agent/internal/prompts"
	"github.com/jonathan/apply-agent/internal/render"
	"github.com/jonathan/apply-agent/internal/scoring"
	"github.com/jonathan/apply-agent/internal/types"
)

// MaxOptimizeAttempts caps the re-optimization loop. After the cap the
// best-scoring document seen so far is accepted as-is.
const MaxOptimizeAttempts = 2

// Options configures one document generation pass.
type Options struct {
	MinATSScore  float64
	AutoOptimize bool
	MaxTokens    int
}

// Result holds the generated artifacts for one job.
type Result struct {
	ResumePath      string
	CoverLetterPath string
	ATSScore        float64
	ATSPass         bool
}

// TextGenerator is the provider router's generation contract: never errors,
// returns empty text when every backend attempt failed.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) string
}

// Generator turns an eligible job into application documents.
type Generator struct {
	Router   TextGenerator
	Renderer render.Renderer
}

// NewGenerator wires the router and renderer.
func NewGenerator(router TextGenerator, renderer render.Renderer) *Generator {
	return &Generator{Router: router, Renderer: renderer}
}

// GenerateDocuments produces a resume and cover letter for one posting.
// When the router is degraded (empty generations) the returned paths are
// empty; the caller stages the job for manual review. Never returns an
// error for backend failures.
func (g *Generator) GenerateDocuments(ctx context.Context, posting types.JobPosting, profile *types.CandidateProfile, requiredSkills []string, opts Options) Result {
	profileJSON := encodeProfile(profile)

	resume, ats := g.generateResume(ctx, posting, profileJSON, requiredSkills, opts)
	cover := g.generateCoverLetter(ctx, posting, profileJSON, opts)

	return Result{
		ResumePath:      g.Renderer.Render(ctx, posting.JobID, render.KindResume, resume),
		CoverLetterPath: g.Renderer.Render(ctx, posting.JobID, render.KindCoverLetter, cover),
		ATSScore:        ats.Score,
		ATSPass:         ats.Pass,
	}
}

// generateResume runs the initial generation plus up to MaxOptimizeAttempts
// re-optimization passes, keeping the best-scoring document seen.
func (g *Generator) generateResume(ctx context.Context, posting types.JobPosting, profileJSON string, requiredSkills []string, opts Options) (string, scoring.ATSResult) {
	system := prompts.MustGet(prompts.GenerationFile, "resume-system")
	user := prompts.Format(prompts.MustGet(prompts.GenerationFile, "resume-user"), map[string]string{
		"Profile":        profileJSON,
		"JobTitle":       posting.Title,
		"Company":        posting.Company,
		"JobDescription": posting.Description,
		"MatchedSkills":  strings.Join(requiredSkills, ", "),
	})

	best := g.Router.Generate(ctx, system, user, opts.MaxTokens)
	bestATS := scoring.ScoreDocument(best, requiredSkills, opts.MinATSScore)
	if best == "" {
		return "", bestATS
	}

	if !opts.AutoOptimize {
		return best, bestATS
	}

	current, currentATS := best, bestATS
	for attempt := 1; attempt <= MaxOptimizeAttempts && !currentATS.Pass; attempt++ {
		log.Printf("[generate] %s ATS score %.2f below %.2f, re-optimizing (attempt %d/%d)",
			posting.JobID, currentATS.Score, opts.MinATSScore, attempt, MaxOptimizeAttempts)

		amendment := prompts.Format(prompts.MustGet(prompts.GenerationFile, "ats-reoptimize"), map[string]string{
			"MissingSkills":   strings.Join(currentATS.MissingSkills, ", "),
			"MissingSections": strings.Join(currentATS.MissingSections, ", "),
			"Document":        current,
		})

		revised := g.Router.Generate(ctx, system, amendment, opts.MaxTokens)
		if revised == "" {
			break
		}
		current = revised
		currentATS = scoring.ScoreDocument(current, requiredSkills, opts.MinATSScore)
		if currentATS.Score > bestATS.Score {
			best, bestATS = current, currentATS
		}
	}
	return best, bestATS
}

func (g *Generator) generateCoverLetter(ctx context.Context, posting types.JobPosting, profileJSON string, opts Options) string {
	system := prompts.MustGet(prompts.GenerationFile, "cover-letter-system")
	user := prompts.Format(prompts.MustGet(prompts.GenerationFile, "cover-letter-user"), map[string]string{
		"Profile":        profileJSON,
		"JobTitle":       posting.Title,
		"Company":        posting.Company,
		"JobDescription": posting.Description,
	})
	return g.Router.Generate(ctx, system, user, opts.MaxTokens)
}

func encodeProfile(profile *types.CandidateProfile) string {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Sprintf("Name: %s\nEmail: %s", profile.Name, profile.Email)
	}
	return string(data)
}
