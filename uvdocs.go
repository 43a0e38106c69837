// Package uvdocs provides a local, version-gated cache of the uv reference
// documentation. It extracts the CLI, settings and resolver reference pages
// into a hierarchical document model, keeps them in a local store that is
// refreshed only when the upstream uv version changes, and serves them through
// hierarchical addresses and a keyword relevance ranker.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package uvdocs
