// Package manifest defines the asset table: which agents exist, where their
// configuration lives, which repository files are placed there, and which
// post-placement actions run afterwards. Tables are YAML documents validated
// against an embedded JSON schema plus Go-level rules, and a default table is
// compiled into the binary.
package manifest
