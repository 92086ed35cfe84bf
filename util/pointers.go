package util

// Ptr returns a pointer to v. Optional request fields such as
// possibly_sensitive are tri-state (unset, true, false), so callers
// pass Ptr(false) rather than a plain bool to distinguish an explicit
// value from an omitted one.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns *p, or the zero value of T when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
