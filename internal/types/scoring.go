package types

// SkillMatch records how one considered skill fared against a job
// description. Embedded in an application's scoring snapshot; not persisted
// on its own.
type SkillMatch struct {
	Name         string  `json:"name"`
	Category     string  `json:"category,omitempty"`
	Required     bool    `json:"required"`
	CandidateHas bool    `json:"candidate_has"`
	MatchScore   float64 `json:"match_score"`
}

// ScoreResult is the scoring engine's verdict for one job. MatchScore and
// ATSScore are always within [0, 1].
type ScoreResult struct {
	MatchScore float64      `json:"match_score"`
	ATSScore   float64      `json:"ats_score"`
	Skills     []SkillMatch `json:"skills,omitempty"`
	Pass       bool         `json:"pass"`
	Reason     string       `json:"reason,omitempty"`
}

// Clamp01 bounds a score to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
