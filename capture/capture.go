// Package capture abstracts live frame acquisition. The camera itself is
// external; a source only hands frames to the enrollment and scanning loops.
package capture

import "image"

// AcquisitionError means the frame source failed. It terminates the current
// loop but never the process.
type AcquisitionError struct {
	Cause error
}

func (e *AcquisitionError) Error() string {
	return "frame acquisition failed: " + e.Cause.Error()
}

func (e *AcquisitionError) Unwrap() error {
	return e.Cause
}

// FrameSource delivers frames in capture order. Next may block while waiting
// for a frame, but the source is responsible for bounding the wait.
// Close must be safe to call on every exit path.
type FrameSource interface {
	Next() (image.Image, error)
	Close() error
}
