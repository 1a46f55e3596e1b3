package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://example.com/jobs", PlatformUnknown},
		{"https://notgreenhouse.io.evil.com/jobs", PlatformUnknown},
		{"https://linkedin.com/jobs/123", PlatformUnknown},
		{"::not a url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformGreenhouse)
	assert.Equal(t, ".job__description.body", selectors[0])
	assert.Contains(t, selectors, ".job-description", "generic selectors follow platform ones")

	assert.Equal(t, JobPostingSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestPlatformNoiseSelectors(t *testing.T) {
	gh := PlatformNoiseSelectors(PlatformGreenhouse)
	assert.Contains(t, gh, "form")
	assert.Contains(t, gh, ".voluntary-self-id")

	unknown := PlatformNoiseSelectors(PlatformUnknown)
	assert.Equal(t, commonNoise, unknown)

	// callers must not be able to grow the shared slice
	unknown[0] = "changed"
	assert.Equal(t, "form", commonNoise[0])
}
