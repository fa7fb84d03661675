package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/matzehuels/repobom/pkg/manifest"
	"github.com/matzehuels/repobom/pkg/manifest/javascript"
	"github.com/matzehuels/repobom/pkg/manifest/python"
	"github.com/matzehuels/repobom/pkg/observability"
	"github.com/matzehuels/repobom/pkg/sbom"
)

// Options configure a scan. The zero value gets sensible defaults from
// [New].
type Options struct {
	// Ignore lists directory names the walker never descends.
	Ignore []string
	// Workers is the number of repositories processed concurrently.
	// Defaults to the number of CPUs.
	Workers int
	// GitTimeout bounds each revision lookup.
	GitTimeout time.Duration
	// Logger receives progress and warning lines. Defaults to a no-op.
	Logger func(format string, args ...any)
}

// Scanner extracts dependency records from every repository under a root.
// The root and options are fixed at construction; a Scanner is safe to
// reuse across runs.
type Scanner struct {
	root     string
	parsers  []manifest.Parser
	resolver Resolver
	opts     Options
}

// New creates a Scanner for the tree rooted at root. A nil resolver
// defaults to git lookups bounded by opts.GitTimeout.
func New(root string, resolver Resolver, opts Options) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	if resolver == nil {
		resolver = NewGitResolver(opts.GitTimeout)
	}
	return &Scanner{
		root:     root,
		parsers:  defaultParsers(),
		resolver: resolver,
		opts:     opts,
	}
}

// defaultParsers returns the manifest parsers in parse order.
func defaultParsers() []manifest.Parser {
	return []manifest.Parser{
		python.NewRequirements(),
		javascript.NewPackageJSON(),
		javascript.NewPackageLock(),
	}
}

// ManifestFilenames lists the conventional manifest files a scan reads,
// in parse order.
func ManifestFilenames() []string {
	parsers := defaultParsers()
	names := make([]string, len(parsers))
	for i, p := range parsers {
		names[i] = p.Filename()
	}
	return names
}

// Result is the outcome of one scan: the sorted record ledger plus
// run statistics.
type Result struct {
	Records []sbom.Record `json:"records"`
	Summary Summary       `json:"summary"`
}

// Summary describes one scan run.
type Summary struct {
	Root          string   `json:"root"`
	Repositories  int      `json:"repositories"`
	ManifestFiles int      `json:"manifest_files"`
	Records       int      `json:"records"`
	PipRecords    int      `json:"pip_records"`
	NPMRecords    int      `json:"npm_records"`
	Warnings      []string `json:"warnings,omitempty"`
	Elapsed       string   `json:"elapsed"`
}

// Discover returns the repository roots under the scan root, in walk
// order.
func (s *Scanner) Discover() ([]string, error) {
	return FindRepositories(s.root, s.opts.Ignore)
}

// Run discovers repositories and scans them in one step.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	repos, err := s.Discover()
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, repos)
}

// Scan parses every repository and returns the sorted record ledger.
//
// Repositories are independent units of work and are processed by a
// bounded worker pool. Each worker writes into the slot indexed by its
// repository's discovery position, the slots are flattened in discovery
// order, and the final stable sort fixes observable order, so the worker
// count never changes output bytes.
func (s *Scanner) Scan(ctx context.Context, repos []string) (*Result, error) {
	start := time.Now()

	results := make([]repoResult, len(repos))
	jobs := make(chan int)

	workers := min(s.opts.Workers, max(len(repos), 1))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.scanRepo(ctx, repos[i])
			}
		}()
	}

feed:
	for i := range repos {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Summary: Summary{Root: s.root, Repositories: len(repos)}}
	for _, rr := range results {
		res.Records = append(res.Records, rr.records...)
		res.Summary.ManifestFiles += rr.files
		res.Summary.Warnings = append(res.Summary.Warnings, rr.warnings...)
	}
	sbom.Sort(res.Records)

	res.Summary.Records = len(res.Records)
	for _, r := range res.Records {
		switch r.Type {
		case manifest.EcosystemPip:
			res.Summary.PipRecords++
		case manifest.EcosystemNPM:
			res.Summary.NPMRecords++
		}
	}
	res.Summary.Elapsed = time.Since(start).Round(time.Millisecond).String()
	return res, nil
}

// repoResult carries one repository's contribution back from a worker.
type repoResult struct {
	records  []sbom.Record
	files    int
	warnings []string
}

// scanRepo resolves the repository revision and parses each conventional
// manifest that exists. Failures stay local: a broken manifest or a
// failed revision lookup downgrades to a warning and the scan moves on.
func (s *Scanner) scanRepo(ctx context.Context, dir string) repoResult {
	start := time.Now()
	observability.Scan().OnRepoStart(ctx, dir)

	var rr repoResult

	rev, err := s.resolver.Resolve(ctx, dir)
	if err != nil {
		s.opts.Logger("revision lookup failed for %s: %v", dir, err)
		rr.warnings = append(rr.warnings, fmt.Sprintf("%s: revision unresolved", dir))
	}

	for _, p := range s.parsers {
		path := filepath.Join(dir, p.Filename())
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			s.opts.Logger("read %s: %v", path, err)
			rr.warnings = append(rr.warnings, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		parsed, err := p.Parse(data)
		if err != nil {
			observability.Scan().OnManifestParsed(ctx, path, string(p.Ecosystem()), 0, err)
			s.opts.Logger("skipping %s: %v", path, err)
			rr.warnings = append(rr.warnings, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		observability.Scan().OnManifestParsed(ctx, path, string(p.Ecosystem()), len(parsed.Pairs), nil)

		rr.files++
		for _, w := range parsed.Warnings {
			s.opts.Logger("%s: %s", path, w)
			rr.warnings = append(rr.warnings, fmt.Sprintf("%s: %s", path, w))
		}
		for _, pair := range parsed.Pairs {
			rr.records = append(rr.records, sbom.Record{
				Name:     pair.Name,
				Version:  pair.Version,
				Type:     p.Ecosystem(),
				Path:     path,
				Revision: rev,
			})
		}
	}

	observability.Scan().OnRepoComplete(ctx, dir, len(rr.records), time.Since(start))
	return rr
}
