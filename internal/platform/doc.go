// Package platform wraps the few filesystem calls whose behaviour differs
// between Unix and Windows: symbolic links, permission bits, and directory
// fsync. Callers decide what to do when a primitive is unavailable.
package platform
