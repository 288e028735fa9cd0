package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

// Weights for the two structural ATS checks.
const (
	skillPresenceWeight  = 0.6
	sectionHeaderWeight  = 0.4
	standardSectionCount = 4
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// ATSResult is the structural compatibility verdict for a generated document.
// Advisory: a failing score triggers the bounded re-optimization loop rather
// than rejecting the job.
type ATSResult struct {
	Score           float64  `json:"score"`
	Pass            bool     `json:"pass"`
	MissingSkills   []string `json:"missing_skills,omitempty"`
	MissingSections []string `json:"missing_sections,omitempty"`
}

// ScoreDocument checks a generated resume/cover letter for automated-screening
// survivability: required skills present as literal tokens, and the standard
// section headers an ATS parser expects. The score is the weighted fraction
// of checks passed, clamped to [0, 1].
func ScoreDocument(document string, requiredSkills []string, minScore float64) ATSResult {
	result := ATSResult{}

	skillScore := 1.0
	if len(requiredSkills) > 0 {
		present := 0
		for _, skill := range requiredSkills {
			if ContainsSkill(document, skill) {
				present++
			} else {
				result.MissingSkills = append(result.MissingSkills, skill)
			}
		}
		skillScore = float64(present) / float64(len(requiredSkills))
	}

	sectionScore := scoreSections(document, &result)

	result.Score = types.Clamp01(skillPresenceWeight*skillScore + sectionHeaderWeight*sectionScore)
	result.Pass = result.Score >= minScore
	return result
}

// scoreSections checks for contact info plus the experience, education, and
// skills headers. Returns the fraction of the four sections found.
func scoreSections(document string, result *ATSResult) float64 {
	lower := strings.ToLower(document)
	found := 0

	if emailPattern.MatchString(document) {
		found++
	} else {
		result.MissingSections = append(result.MissingSections, "contact info")
	}

	for _, header := range []string{"experience", "education", "skills"} {
		if strings.Contains(lower, header) {
			found++
		} else {
			result.MissingSections = append(result.MissingSections, header)
		}
	}

	return float64(found) / standardSectionCount
}
