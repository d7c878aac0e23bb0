// Package mcpconfig merges one top-level key of a repository document (the
// MCP server registry) into an external configuration file shared with other
// tools. Every other key in the external file is preserved, and the file is
// replaced atomically so readers see either the old or the new content.
//
// JSON, TOML and YAML documents are supported on both sides. String values
// under the merged key may contain ${NAME} placeholders, resolved from a .env
// file and then the process environment.
package mcpconfig
