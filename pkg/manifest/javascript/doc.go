// Package javascript parses npm dependency manifests.
//
// # Overview
//
// This package implements [manifest.Parser] for the two Node manifest
// kinds:
//
//   - package.json: declared direct dependencies ([PackageJSON])
//   - package-lock.json: the materialized install tree ([PackageLock])
//
// # Sections
//
// Both parsers read the same four dependency sections in fixed order:
// dependencies, devDependencies, peerDependencies, optionalDependencies.
// Nothing is deduplicated: a name appearing in two sections yields two
// pairs, because the output is a provenance ledger rather than a package
// set.
//
// # Document order
//
// Pairs keep the order of the JSON document. Sections are decoded
// token-by-token instead of through Go maps, whose iteration order would
// randomize output between runs.
//
// [manifest.Parser]: github.com/matzehuels/repobom/pkg/manifest.Parser
package javascript
