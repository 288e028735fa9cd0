package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		url  string
		want Platform
	}{
		{"https://www.linkedin.com/jobs/view/12345", PlatformLinkedIn},
		{"https://www.indeed.com/viewjob?jk=abc", PlatformIndeed},
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/abc-def", PlatformLever},
		{"https://acme.wd1.myworkdayjobs.com/careers/job/123", PlatformWorkday},
		{"https://careers.example.com/job/123", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectPlatform(tc.url), tc.url)
	}
}

func TestPlatformContentSelectors_NonEmpty(t *testing.T) {
	for _, p := range []Platform{
		PlatformLinkedIn, PlatformIndeed, PlatformGreenhouse,
		PlatformLever, PlatformWorkday, PlatformUnknown,
	} {
		assert.NotEmpty(t, PlatformContentSelectors(p), string(p))
	}
}

func TestPlatformNoiseSelectors_IncludeCommon(t *testing.T) {
	for _, p := range []Platform{PlatformLinkedIn, PlatformIndeed, PlatformGreenhouse} {
		selectors := PlatformNoiseSelectors(p)
		assert.Contains(t, selectors, "form", string(p))
		assert.Contains(t, selectors, ".cookie-banner", string(p))
	}
}
