package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveJobID_Stable(t *testing.T) {
	a := DeriveJobID("linkedin", "Backend Engineer", "Acme", "Remote")
	b := DeriveJobID("linkedin", "Backend Engineer", "Acme", "Remote")
	assert.Equal(t, a, b)
	assert.Contains(t, a, "linkedin-")
}

func TestDeriveJobID_CaseAndWhitespaceInsensitive(t *testing.T) {
	a := DeriveJobID("LinkedIn", " Backend Engineer ", "ACME", "remote")
	b := DeriveJobID("linkedin", "backend engineer", "acme", "Remote ")
	assert.Equal(t, a, b)
}

func TestDeriveJobID_DistinguishesListings(t *testing.T) {
	a := DeriveJobID("linkedin", "Backend Engineer", "Acme", "Remote")
	b := DeriveJobID("linkedin", "Backend Engineer", "Globex", "Remote")
	c := DeriveJobID("indeed", "Backend Engineer", "Acme", "Remote")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDeriveJobID_FieldBoundaries(t *testing.T) {
	// Concatenation across fields must not collide.
	a := DeriveJobID("s", "ab", "c", "")
	b := DeriveJobID("s", "a", "bc", "")
	assert.NotEqual(t, a, b)
}

func TestEnsureJobID_PreservesNativeID(t *testing.T) {
	p := JobPosting{JobID: "native-42", Source: "linkedin", Title: "X"}
	p.EnsureJobID()
	assert.Equal(t, "native-42", p.JobID)
}

func TestDedupePostings(t *testing.T) {
	postings := []JobPosting{
		{Source: "linkedin", Title: "Backend Engineer", Company: "Acme", Location: "Remote"},
		{Source: "indeed", Title: "Data Engineer", Company: "Globex", Location: "NYC"},
		{Source: "linkedin", Title: "Backend Engineer", Company: "Acme", Location: "Remote"},
	}
	out := DedupePostings(postings)
	assert.Len(t, out, 2)
	assert.Equal(t, "Backend Engineer", out[0].Title)
	assert.Equal(t, "Data Engineer", out[1].Title)
	for _, p := range out {
		assert.NotEmpty(t, p.JobID)
	}
}
