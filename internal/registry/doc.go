// Package registry locates asset sources inside the configuration repository.
// Resolution is read-only: a source that is absent or of the wrong kind is
// reported once through a Reporter and skipped, never treated as an error.
package registry
