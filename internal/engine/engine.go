package engine

// ModelVersion selects which Silero graph and recurrent-state layout to
// load: v4 (separate LSTM hidden/cell tensors) or v5 (unified GRU state).
type ModelVersion string

const (
	ModelV4 ModelVersion = "v4"
	ModelV5 ModelVersion = "v5"
)

// Model is the per-frame inference contract this package's constructors
// return. It mirrors package vad's ModelRunner structurally without
// importing it, so the dependency direction stays vad -> engine, never the
// reverse.
type Model interface {
	// Evaluate runs inference on exactly one frame and returns the speech
	// probability, advancing recurrent state.
	Evaluate(frame []float32) (float64, error)
	// Reset zeroes recurrent state.
	Reset() error
	// Close releases model resources. Safe to call more than once.
	Close() error
}

func clearFloat32Slice(s []float32) {
	for i := range s {
		s[i] = 0
	}
}
