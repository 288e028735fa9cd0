package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const completeResume = `Jane Doe
jane@example.com | 555-0100

Summary
Backend engineer.

Experience
Built Go services with PostgreSQL.

Education
B.S. Computer Science

Skills
Go, PostgreSQL, Docker
`

func TestScoreDocument_CompleteDocument(t *testing.T) {
	result := ScoreDocument(completeResume, []string{"Go", "PostgreSQL"}, 0.7)

	assert.InDelta(t, 1.0, result.Score, 0.001)
	assert.True(t, result.Pass)
	assert.Empty(t, result.MissingSkills)
	assert.Empty(t, result.MissingSections)
}

func TestScoreDocument_MissingSkills(t *testing.T) {
	result := ScoreDocument(completeResume, []string{"Go", "Terraform"}, 0.9)

	assert.False(t, result.Pass)
	assert.Equal(t, []string{"Terraform"}, result.MissingSkills)
}

func TestScoreDocument_MissingSections(t *testing.T) {
	doc := "Just a paragraph about Go with no structure."
	result := ScoreDocument(doc, []string{"Go"}, 0.9)

	assert.False(t, result.Pass)
	assert.Contains(t, result.MissingSections, "contact info")
	assert.Contains(t, result.MissingSections, "education")
}

func TestScoreDocument_Bounds(t *testing.T) {
	for _, doc := range []string{"", completeResume, "unrelated text"} {
		result := ScoreDocument(doc, []string{"Go", "Rust", "Erlang"}, 0.5)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 1.0)
	}
}

func TestScoreDocument_NoRequiredSkills(t *testing.T) {
	// With no required skills the skill component is a free pass; only
	// structure counts.
	result := ScoreDocument(completeResume, nil, 0.7)
	assert.InDelta(t, 1.0, result.Score, 0.001)
	assert.True(t, result.Pass)
}
