//go:build !cgo

package audio

import "fmt"

// DeviceCapturer reports that capture needs a cgo build.
func DeviceCapturer(uint32, func([]float32)) (func() error, error) {
	return nil, fmt.Errorf("%w: built without cgo", ErrCaptureUnavailable)
}
