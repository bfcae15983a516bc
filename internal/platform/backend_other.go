//go:build !linux && !darwin

package platform

// Open always fails on systems without a backend.
func Open(_ string) (Backend, error) {
	return nil, ErrUnsupported
}
