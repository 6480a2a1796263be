package gosieview

import "errors"

var (
	// ErrUnsupportedFormat is returned for asset paths no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported asset format")
	// ErrNoGeometry is returned when an asset parses but holds no faces.
	ErrNoGeometry = errors.New("asset has no geometry")
	// ErrLoaderPanic wraps a panic recovered from a loader goroutine.
	ErrLoaderPanic = errors.New("loader panicked")
)
