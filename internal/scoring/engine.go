package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

// Weights for the match score. Skills named as required count double.
const (
	requiredSkillWeight = 2.0
	optionalSkillWeight = 1.0
)

// Criteria holds the caller-supplied filter parameters for one run.
type Criteria struct {
	MinMatchScore    float64
	RequiredSkills   []string
	ExcludedKeywords []string
}

// Evaluate scores a job description against a candidate profile and decides
// pass/fail under the given criteria. It never fails: a description with no
// recognizable skills simply scores 0.0.
func Evaluate(description string, profile *types.CandidateProfile, criteria Criteria) types.ScoreResult {
	result := types.ScoreResult{}

	// Excluded keywords reject the job regardless of how well it matches.
	for _, kw := range criteria.ExcludedKeywords {
		if ContainsKeyword(description, kw) {
			result.Reason = fmt.Sprintf("excluded_keyword:%s", strings.ToLower(strings.TrimSpace(kw)))
			result.MatchScore = matchScore(description, profile, criteria.RequiredSkills, &result)
			result.Pass = false
			return result
		}
	}

	result.MatchScore = matchScore(description, profile, criteria.RequiredSkills, &result)
	if result.MatchScore >= criteria.MinMatchScore {
		result.Pass = true
	} else {
		result.Reason = fmt.Sprintf("match_score_below_threshold:%.2f", result.MatchScore)
	}
	return result
}

// matchScore computes the weighted fraction of considered skills the
// candidate has. A skill is considered when it appears in the description and
// is either named required or held by the candidate. Appends one SkillMatch
// per considered skill to result.
func matchScore(description string, profile *types.CandidateProfile, requiredSkills []string, result *types.ScoreResult) float64 {
	type considered struct {
		category string
		required bool
		has      bool
	}

	skills := make(map[string]*considered)
	order := make([]string, 0, len(requiredSkills)+len(profile.Skills))

	candidateHas := make(map[string]string, len(profile.Skills))
	for _, s := range profile.Skills {
		candidateHas[strings.ToLower(strings.TrimSpace(s.Name))] = s.Category
	}

	for _, name := range requiredSkills {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || !ContainsSkill(description, key) {
			continue
		}
		category, has := candidateHas[key]
		skills[key] = &considered{category: category, required: true, has: has}
		order = append(order, key)
	}

	for _, s := range profile.Skills {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" || skills[key] != nil || !ContainsSkill(description, key) {
			continue
		}
		skills[key] = &considered{category: s.Category, required: false, has: true}
		order = append(order, key)
	}

	totalWeight := 0.0
	matchedWeight := 0.0
	for _, key := range order {
		c := skills[key]
		weight := optionalSkillWeight
		if c.required {
			weight = requiredSkillWeight
		}
		totalWeight += weight

		perSkill := 0.0
		if c.has {
			matchedWeight += weight
			perSkill = 1.0
		}
		result.Skills = append(result.Skills, types.SkillMatch{
			Name:         key,
			Category:     c.category,
			Required:     c.required,
			CandidateHas: c.has,
			MatchScore:   perSkill,
		})
	}

	if totalWeight == 0 {
		return 0.0
	}
	return types.Clamp01(matchedWeight / totalWeight)
}
