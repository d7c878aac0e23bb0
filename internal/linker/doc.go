// Package linker places repository assets into an agent's target directory,
// either as a symbolic link to the canonical source or as a copy, replacing
// whatever previously occupied the target path. It also inspects placed
// assets and prunes dangling links left behind by removed sources.
package linker
