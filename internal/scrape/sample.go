package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

// SampleSearcher returns deterministic demo postings so the pipeline can run
// end to end without network access. Descriptions are pre-filled, so detail
// scraping is a no-op for these.
type SampleSearcher struct{}

func (SampleSearcher) Source() string { return types.SourceSample }

func (SampleSearcher) Search(ctx context.Context, query Query) ([]types.JobPosting, error) {
	location := query.Location
	if location == "" {
		location = "Remote"
	}
	role := query.KeywordString()
	if role == "" {
		role = "Software Engineer"
	}

	postings := []types.JobPosting{
		{
			Title:    fmt.Sprintf("Senior %s", titleCase(role)),
			Company:  "Acme Systems",
			Location: location,
			Source:   types.SourceSample,
			Description: "We are hiring a senior engineer to build distributed services in Go. " +
				"You will design APIs, own PostgreSQL schemas, and deploy on Kubernetes. " +
				"Requirements: 5+ years with Go or Python, SQL, Docker, CI/CD pipelines.",
		},
		{
			Title:    titleCase(role),
			Company:  "Globex Labs",
			Location: location,
			Source:   types.SourceSample,
			Description: "Join a small team shipping data pipelines in Python. " +
				"Experience with SQL, AWS, and Terraform is a plus. " +
				"We value clear communication and ownership.",
		},
		{
			Title:    fmt.Sprintf("Staff %s", titleCase(role)),
			Company:  "Initech",
			Location: location,
			Source:   types.SourceSample,
			Description: "Lead architecture for our platform team. " +
				"Deep experience with Java, Kafka, and microservices required. " +
				"Kubernetes and observability tooling experience preferred.",
		},
	}

	for i := range postings {
		postings[i].EnsureJobID()
	}
	return capPostings(postings, query.Limit), nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
