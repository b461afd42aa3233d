// Package docyard ingests heterogeneous documentation sources (crawled
// websites, source-code repositories, local file trees), normalizes them
// into a uniform content model, and serves the result through a small
// retrieval API: fuzzy search, direct lookup, and hierarchical listing.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gitrepo/, query/).
package docyard

// Version is the docyard release version, reported by the CLI and the
// MCP server implementation info.
const Version = "0.3.0"
