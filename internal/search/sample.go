package search

import (
	"context"

	"github.com/jonathan/job-agent/internal/db"
)

// sampleCatalogue is served by the sample provider for offline use and demos.
var sampleCatalogue = []db.JobPosting{
	{
		Title:    "Digital Transformation Analyst",
		Company:  "Acme Analytics",
		Location: "London, UK",
		URL:      "https://careers.example.com/roles/123",
		Snippet:  "Drive analytics initiatives and support transformation programmes. SQL, Python, stakeholder management, process mapping.",
	},
	{
		Title:    "Product Analyst",
		Company:  "Bytebank",
		Location: "London, UK",
		URL:      "https://jobs.example.com/roles/456",
		Snippet:  "Partner with PMs to optimise funnel and monetisation. Experimentation, BI tools, SQL.",
	},
	{
		Title:    "Senior AI Engineer",
		Company:  "Northwind Labs",
		Location: "San Francisco, CA (Remote)",
		URL:      "https://jobs.example.com/roles/789",
		Snippet:  "Design and implement large-scale ML systems. 5+ years of ML experience, Python, PyTorch, distributed training.",
	},
	{
		Title:    "Machine Learning Engineer",
		Company:  "Contoso AI",
		Location: "London, UK (Hybrid)",
		URL:      "https://careers.example.com/roles/1011",
		Snippet:  "Build and deploy ML models at scale and optimise inference pipelines. Python, TensorFlow or JAX, GCP.",
	},
	{
		Title:    "Backend Software Developer",
		Company:  "Fabrikam",
		Location: "Remote",
		URL:      "https://fabrikam.example.com/jobs/backend-dev",
		Snippet:  "Own Go services backed by PostgreSQL. REST APIs, Docker, Kubernetes, observability.",
	},
}

// Sample searches a small built-in catalogue. Every query word must appear in
// the title, company or snippet.
type Sample struct{}

// Name implements Provider
func (Sample) Name() string { return "sample" }

// Search implements Provider
func (Sample) Search(_ context.Context, query, location string) ([]db.JobPosting, error) {
	var out []db.JobPosting
	for _, p := range sampleCatalogue {
		if !matches(p.Title+" "+p.Company+" "+p.Snippet, query) {
			continue
		}
		if !locationMatches(p.Location, location) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
