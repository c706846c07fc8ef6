package vad

// ModelRunner feeds one frame of frameSamples float32 samples at a time and
// returns a speech probability in [0, 1], carrying recurrent state between
// calls.
//
// Implementations live in package engine (github.com/yalue/onnxruntime_go
// backed, or a deterministic stub); this package depends only on the
// interface, never on ONNX Runtime directly.
type ModelRunner interface {
	// Evaluate runs inference on exactly one frame and returns the speech
	// probability, advancing recurrent state.
	Evaluate(frame []float32) (float64, error)
	// Reset zeroes recurrent state.
	Reset() error
	// Close releases model resources. Safe to call more than once.
	Close() error
}
