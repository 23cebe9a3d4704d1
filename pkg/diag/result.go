// Package diag carries structured diagnostics through the
// parsing layers. Parse functions return a Result rather than
// an error so that a batch of inputs can report every problem
// it finds, not just the first one.
package diag

// Result is the outcome of parsing a single unit of input. A
// result is either success or failure and carries an ordered
// list of annotations either way. A successful result may or
// may not hold a value: a reader that has cleanly run out of
// input returns success with no value.
type Result[T any] struct {
	ok          bool
	hasValue    bool
	value       T
	annotations []Annotation
}

// OK returns a successful result carrying a value.
func OK[T any](value T, annotations ...Annotation) Result[T] {
	return Result[T]{
		ok:          true,
		hasValue:    true,
		value:       value,
		annotations: annotations,
	}
}

// Empty returns a successful result with no value. It is the
// identity element of Merge.
func Empty[T any](annotations ...Annotation) Result[T] {
	return Result[T]{
		ok:          true,
		annotations: annotations,
	}
}

// Fail returns a failed result.
func Fail[T any](annotations ...Annotation) Result[T] {
	return Result[T]{
		annotations: annotations,
	}
}

func (r Result[T]) OK() bool {
	return r.ok
}

// Value returns the carried value and whether one is present.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.hasValue
}

// MustValue returns the carried value and panics if there is
// none. Reserved for cases where the caller has already checked
// OK on a value-bearing parse.
func (r Result[T]) MustValue() T {
	if !r.hasValue {
		panic("diag: MustValue called on a result with no value")
	}
	return r.value
}

// Annotations returns the diagnostic list in the order the
// problems were found.
func (r Result[T]) Annotations() []Annotation {
	return r.annotations
}

// Merge combines r with others: annotations are concatenated in
// order and the merged result fails if any input failed. The
// value (if any) of r is kept.
func Merge[T any](r Result[T], others ...Result[T]) Result[T] {
	for _, o := range others {
		r.ok = r.ok && o.ok
		r.annotations = append(r.annotations, o.annotations...)
	}
	return r
}

// Status converts a result of one type into a valueless result
// of another, keeping the success flag and annotations. It is
// how composite parsers fold sub-results of differing types
// into one outcome.
func Status[U, T any](r Result[T]) Result[U] {
	return Result[U]{
		ok:          r.ok,
		annotations: r.annotations,
	}
}
