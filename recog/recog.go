// Package recog defines the face capability contracts consumed by the
// enrollment and scanning loops, plus the training coordinator that turns the
// sample corpus into the current model artifact. Any engine satisfying the
// interfaces is substitutable; the production one is backed by go-face.
package recog

import (
	"errors"
	"image"
)

var (
	ErrEmptyCorpus  = errors.New("no enrollment samples to train on")
	ErrModelMissing = errors.New("no trained model, run training first")
)

// Engine is the external detection/recognition capability.
type Engine interface {
	// Detect locates face regions in a frame. May return zero regions.
	Detect(frame image.Image) ([]image.Rectangle, error)
	// Train learns a model from parallel sample/owner-id sequences.
	Train(samples []*image.Gray, ids []uint64) (Model, error)
	// LoadModel restores a model from a persisted artifact.
	LoadModel(data []byte) (Model, error)
}

// Model is one trained artifact. It is stale as soon as new samples are
// added; retraining replaces it wholesale.
type Model interface {
	// Predict classifies a grayscale face crop. Lower distance = better match.
	Predict(face *image.Gray) (id uint64, distance float64, err error)
	Bytes() ([]byte, error)
}

// PadRegion grows a detected region by margin pixels on all sides, clipping
// the top-left at the frame origin. ok=false means the padded box would
// exceed the frame and the region must be silently skipped.
func PadRegion(region image.Rectangle, margin int, frame image.Rectangle) (image.Rectangle, bool) {
	padded := image.Rect(
		region.Min.X-margin,
		region.Min.Y-margin,
		region.Max.X+margin,
		region.Max.Y+margin,
	)
	if padded.Min.X < frame.Min.X {
		padded.Min.X = frame.Min.X
	}
	if padded.Min.Y < frame.Min.Y {
		padded.Min.Y = frame.Min.Y
	}
	if padded.Max.X > frame.Max.X || padded.Max.Y > frame.Max.Y {
		return image.Rectangle{}, false
	}
	if padded.Empty() {
		return image.Rectangle{}, false
	}
	return padded, true
}
