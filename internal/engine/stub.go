package engine

// StubToggleInterval is the number of frames after which the stub model
// toggles between its speech and silence probability.
const StubToggleInterval = 50

// StubSpeechProb and StubSilenceProb are the two fixed probabilities a
// StubModel alternates between.
const (
	StubSpeechProb  = 0.9
	StubSilenceProb = 0.1
)

// StubModel returns deterministic speech probabilities by alternating
// between StubSpeechProb and StubSilenceProb every StubToggleInterval
// frames. It ignores frame contents and runs no inference — useful for
// exercising the iterator and handler without ONNX Runtime.
type StubModel struct {
	counter  int
	speaking bool
}

// NewStubModel creates a StubModel starting in its silence phase.
func NewStubModel() *StubModel {
	return &StubModel{}
}

// Evaluate ignores frame and returns the current phase's fixed probability,
// toggling phase every StubToggleInterval calls.
func (m *StubModel) Evaluate(_ []float32) (float64, error) {
	m.counter++
	if m.counter >= StubToggleInterval {
		m.counter = 0
		m.speaking = !m.speaking
	}
	if m.speaking {
		return StubSpeechProb, nil
	}
	return StubSilenceProb, nil
}

// Reset returns the model to its initial state (silence phase, counter zero).
func (m *StubModel) Reset() error {
	m.counter = 0
	m.speaking = false
	return nil
}

// Close is a no-op for the stub model.
func (m *StubModel) Close() error {
	return nil
}
