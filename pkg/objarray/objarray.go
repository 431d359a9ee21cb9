// Package objarray implements component F: destroy, join, and traverse
// over arrays of typed PKI objects. These are generic over the object
// kind; each kind supplies its own destructor (a certificate's decoded
// form may front the object, so the source gives each kind its own
// destroy function rather than one generic destructor).
package objarray

// Destroy calls destroy on every element of items, in order. It is the
// generic stand-in for nssCertificateArray_Destroy / nssCRLArray_Destroy:
// the array utility is generic, the per-kind teardown is not.
func Destroy[T any](items []T, destroy func(T)) {
	for _, it := range items {
		destroy(it)
	}
}

// Join concatenates a and b, reusing a's backing array when it has spare
// capacity (the Go analogue of the source's realloc-in-place join). The
// result contains every element of a, then every element of b, in order.
func Join[T any](a, b []T) []T {
	switch {
	case len(a) == 0:
		return b
	case len(b) == 0:
		return a
	default:
		return append(a, b...)
	}
}

// Traverse invokes cb for each element in order, stopping at the first
// error it returns.
func Traverse[T any](items []T, cb func(T) error) error {
	for _, it := range items {
		if err := cb(it); err != nil {
			return err
		}
	}
	return nil
}
