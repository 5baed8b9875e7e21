package core

import "errors"

var (
	// ErrUnknownEffect is returned when a key names no registered effect.
	ErrUnknownEffect = errors.New("unknown effect")
	// ErrTornDown is returned by a second Teardown of the same mount.
	ErrTornDown = errors.New("mount already torn down")
	// ErrNoEffects is returned when a gallery has nothing to show.
	ErrNoEffects = errors.New("no effects registered")
	// ErrShadersUnsupported is returned by effects that need a shader
	// compiler the host does not offer.
	ErrShadersUnsupported = errors.New("shaders unsupported on this canvas")
)
