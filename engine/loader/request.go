package loader

import (
	"errors"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// DefaultScale is applied when a Placement leaves Scale unset.
const DefaultScale float32 = 0.02

var (
	// ErrUnsupportedFormat is returned when no backend can decode a source.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrEmptyModel is returned when a file decodes but contains no triangle geometry.
	ErrEmptyModel = errors.New("model has no renderable meshes")

	// ErrHTTPStatus is returned when a remote source answers with a non-200 status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrMalformedModel is returned when decoding a source panicked.
	ErrMalformedModel = errors.New("malformed model")
)

// Placement is where a loaded model goes in the world.
type Placement struct {
	X, Y, Z float32

	// RotationY is the initial rotation about the vertical axis in radians.
	RotationY float32

	// Scale is the uniform scale. Zero means DefaultScale.
	Scale float32
}

// ResolvedScale returns Scale, or DefaultScale when Scale is unset.
func (p Placement) ResolvedScale() float32 {
	if p.Scale == 0 {
		return DefaultScale
	}
	return p.Scale
}

// LoadRequest asks for one model to be fetched, decoded and placed into a slot.
type LoadRequest struct {
	// Source is an http(s) URL or a path relative to the loader's asset root.
	Source string

	Placement Placement

	// Slot is the zero-based entity slot the model fills.
	Slot int
}

// Result is the outcome of a LoadRequest, delivered on the loader's completion channel.
type Result struct {
	Request LoadRequest

	// Source is the source that produced Model, or the last one tried on failure.
	Source string

	// Model is the placed model on success, nil on failure.
	Model model.Node

	// Fallback is true when the fallback source was attempted.
	Fallback bool

	// Err is non-nil when both the primary and the fallback failed.
	Err error
}

// OK reports whether the request produced a model.
func (r Result) OK() bool {
	return r.Err == nil && r.Model != nil
}
