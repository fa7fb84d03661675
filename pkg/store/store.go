// Package store persists scan runs in an external inventory. The
// [Store] interface keeps command logic testable; [Mongo] is the
// production implementation.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/repobom/pkg/sbom"
	"github.com/matzehuels/repobom/pkg/scan"
)

// DefaultDatabase is the database name used when none is configured.
const DefaultDatabase = "repobom"

// Run describes one published scan: where it ran, what it found, and
// the tool that produced it.
type Run struct {
	ID         string    `bson:"_id" json:"id"`
	Root       string    `bson:"root" json:"root"`
	Repos      int       `bson:"repositories" json:"repositories"`
	Records    int       `bson:"records" json:"records"`
	Warnings   int       `bson:"warnings" json:"warnings"`
	Tool       string    `bson:"tool" json:"tool"`
	Version    string    `bson:"version" json:"version"`
	StartedAt  time.Time `bson:"started_at" json:"started_at"`
	FinishedAt time.Time `bson:"finished_at" json:"finished_at"`
}

// Store saves scan runs and their records.
type Store interface {
	// SaveRun persists one run document and its records.
	SaveRun(ctx context.Context, run Run, records []sbom.Record) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// NewRun builds a Run from a scan result. The start time is derived
// from the finish time and the scan's elapsed duration.
func NewRun(res *scan.Result, version string, finished time.Time) Run {
	elapsed, _ := time.ParseDuration(res.Summary.Elapsed)
	return Run{
		ID:         uuid.NewString(),
		Root:       res.Summary.Root,
		Repos:      res.Summary.Repositories,
		Records:    res.Summary.Records,
		Warnings:   len(res.Summary.Warnings),
		Tool:       "repobom",
		Version:    version,
		StartedAt:  finished.Add(-elapsed),
		FinishedAt: finished,
	}
}
