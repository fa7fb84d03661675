// Package pkg provides the core libraries for repobom SBOM generation.
//
// # Overview
//
// repobom walks a directory tree, finds every git repository, and turns the
// dependency manifests it knows into one provenance ledger: a flat list of
// records, each tracing a (name, version) pair back to the manifest file and
// repository revision it was read from. The pkg directory is organized into
// four main areas:
//
//  1. [manifest] - Ecosystem parsers (requirements.txt, package.json, package-lock.json)
//  2. [scan] - Repository discovery, revision resolution, parallel scanning
//  3. [sbom] - The record model, sorting, and CSV/JSON/CycloneDX writers
//  4. [render], [server], [store] - Ledger consumers (graphs, HTTP API, MongoDB)
//
// # Architecture
//
// The typical data flow through repobom:
//
//	Directory tree
//	     ↓
//	[scan] walker (find git repository roots)
//	     ↓
//	[manifest] parsers (bytes → ordered (name, version) pairs)
//	     ↓
//	[scan] scanner (attach ecosystem, path, revision)
//	     ↓
//	[sbom] sort + writers
//	     ↓
//	sbom.csv / sbom.json / sbom.cdx.json
//
// # Quick Start
//
// Scan a tree and export the ledger:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/repobom/pkg/scan"
//	    "github.com/matzehuels/repobom/pkg/sbom"
//	)
//
//	scanner := scan.New("/path/to/projects", nil, scan.Options{})
//	result, err := scanner.Run(context.Background())
//	if err != nil {
//	    // ...
//	}
//	err = sbom.ExportCSV("/path/to/projects/sbom.csv", result.Records)
//
// # Main Packages
//
// [manifest] - The parser contract plus one subpackage per ecosystem:
// [manifest/python] for requirements.txt, [manifest/javascript] for
// package.json and package-lock.json. Parsers pass names and versions
// through verbatim and report recoverable line-level problems as warnings.
//
// [scan] - Walker (repository discovery), revision resolver (git lookup
// behind a stub-friendly interface), and the worker-pool scanner whose
// output bytes never depend on the worker count.
//
// [sbom] - The Record type, the stable (name, version) sort, and the
// Write*/Export* writer pairs for CSV, JSON, and CycloneDX 1.4.
//
// [config] - Immutable run configuration merged from defaults, an optional
// repobom.toml, and command-line flags.
//
// [errors] - Structured errors with stable machine-readable codes.
//
// [render] - Bipartite repository/package provenance graphs as DOT and SVG.
//
// [server] - Read-only HTTP API over a completed scan.
//
// [store] - Run persistence in MongoDB behind the [store.Store] interface.
//
// [observability] - Optional instrumentation hooks with no-op defaults.
//
// [buildinfo] - ldflags-injected version metadata.
//
// [manifest]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/manifest
// [manifest/python]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/manifest/python
// [manifest/javascript]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/manifest/javascript
// [scan]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/scan
// [sbom]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/sbom
// [config]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/errors
// [render]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/server
// [store]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/store
// [store.Store]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/store#Store
// [observability]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/repobom/pkg/buildinfo
package pkg
