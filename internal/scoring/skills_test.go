package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsSkill_WordBoundaries(t *testing.T) {
	cases := []struct {
		text  string
		skill string
		want  bool
	}{
		{"We use Go and Python", "go", true},
		{"We use Go and Python", "python", true},
		{"Django experience required", "go", false}, // "go" inside "Django"
		{"Experience with C++ required", "c++", true},
		{"Scala developers wanted", "java", false},
		{"JavaScript is fine", "java", false},
		{"Java and JavaScript", "java", true},
		{"", "go", false},
		{"anything", "", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ContainsSkill(tc.text, tc.skill),
			"text=%q skill=%q", tc.text, tc.skill)
	}
}

func TestContainsSkill_Variants(t *testing.T) {
	assert.True(t, ContainsSkill("Golang services at scale", "go"))
	assert.True(t, ContainsSkill("Deploying to k8s clusters", "kubernetes"))
	assert.True(t, ContainsSkill("Strong JS fundamentals", "javascript"))
	assert.False(t, ContainsSkill("Strong fundamentals", "javascript"))
}

func TestContainsKeyword_CaseInsensitiveSubstring(t *testing.T) {
	assert.True(t, ContainsKeyword("Must RELOCATE to Berlin", "relocate"))
	assert.True(t, ContainsKeyword("On-site only", "on-site"))
	assert.False(t, ContainsKeyword("Fully remote", "on-site"))
	assert.False(t, ContainsKeyword("text", ""))
}
