package types

// CandidateProfile describes the person the pipeline applies on behalf of.
// Supplied by the caller before a run and treated as immutable for the run's
// duration.
type CandidateProfile struct {
	Name       string            `json:"name" validate:"required"`
	Email      string            `json:"email" validate:"required,email"`
	Phone      string            `json:"phone,omitempty"`
	Location   string            `json:"location,omitempty"`
	LinkedIn   string            `json:"linkedin,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Skills     []CandidateSkill  `json:"skills" validate:"required,min=1,dive"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
}

// CandidateSkill is one skill with its category tag (technical, soft,
// certification, ...).
type CandidateSkill struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category,omitempty"`
}

// ExperienceEntry is one position in the candidate's history.
type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Dates       string `json:"dates,omitempty"`
	Description string `json:"description,omitempty"`
}

// EducationEntry is one degree or program.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location,omitempty"`
	Dates       string `json:"dates,omitempty"`
}

// SkillNames returns the flat list of skill names.
func (p *CandidateProfile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}
