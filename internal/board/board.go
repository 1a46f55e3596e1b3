// Package board projects saved jobs onto the five-column status board and
// classifies deadlines by urgency.
package board

import (
	"time"

	"github.com/jonathan/job-agent/internal/db"
)

// Card is one posting on the board with its computed deadline badge
type Card struct {
	Job      db.JobPosting `json:"job"`
	Deadline *Badge        `json:"deadline,omitempty"`
}

// Column is one status bucket
type Column struct {
	Status string `json:"status"`
	Cards  []Card `json:"cards"`
}

// Board is the full projection. Columns are always the five statuses in order.
type Board struct {
	Columns []Column `json:"columns"`
	Total   int      `json:"total"`
}

// Project partitions postings into the five status columns. Unknown or empty
// statuses land in Saved. Badges are computed against now on every call.
func Project(postings []db.JobPosting, now time.Time) Board {
	columns := make([]Column, len(db.Statuses))
	index := make(map[string]int, len(db.Statuses))
	for i, s := range db.Statuses {
		columns[i] = Column{Status: s, Cards: []Card{}}
		index[s] = i
	}

	for _, p := range postings {
		i, ok := index[p.Status]
		if !ok {
			i = index[db.StatusSaved]
		}
		columns[i].Cards = append(columns[i].Cards, Card{
			Job:      p,
			Deadline: Classify(p.DueDate, now),
		})
	}

	return Board{Columns: columns, Total: len(postings)}
}

// Column returns the column for status, or nil if status is not a board column.
func (b Board) Column(status string) *Column {
	for i := range b.Columns {
		if b.Columns[i].Status == status {
			return &b.Columns[i]
		}
	}
	return nil
}
