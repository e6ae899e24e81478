package domain

// Optional wraps a patch value and remembers whether it was supplied at all,
// distinguishing "not in the patch" from "explicitly set to the zero value"
type Optional[T any] struct {
	value T
	set   bool
}

// Set makes a supplied Optional with the given value
func Set[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it was supplied
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// Or returns the value when supplied, fallback otherwise
func (o Optional[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}
