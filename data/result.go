package data

// Result is the tri-state outcome every mutating or I/O operation returns.
// Ordinary not-found conditions are unsuccessful results with a nil error;
// only genuine backend faults populate the error. Callers branch on OK
// instead of unwinding.
type Result[T any] struct {
	ok    bool
	value T
	err   error
}

// Ok builds a successful result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{ok: true, value: value}
}

// NotFound builds the unsuccessful-but-unexceptional result: success=false
// with an empty error payload.
func NotFound[T any]() Result[T] {
	return Result[T]{}
}

// Fail builds an unsuccessful result carrying a backend error.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.ok
}

// Value returns the carried value. It is the zero value unless OK.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the error payload, nil for success and for plain not-found.
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap splits the result into its value and error for callers that
// prefer the conventional two-value shape.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}
