package vad

// AudioSource stands in for platform microphone acquisition, which this
// repo does not implement: only this interface and two trivial
// implementations (ChanSource, and the replay.FileSource demo driver).
type AudioSource interface {
	// Chunks delivers raw PCM16LE byte batches. The channel is closed when
	// the source is exhausted or closed.
	Chunks() <-chan []byte
	// Errors delivers source-level failures (e.g. a replay file read
	// error). May be nil if the source never fails.
	Errors() <-chan error
	// Close releases the source. Safe to call more than once.
	Close() error
}

// ChanSource adapts a caller-owned channel of PCM16LE byte batches into an
// AudioSource. Per §9's ownership note, the core never closes the wrapped
// channel — ChanSource.Close is a no-op, since the channel is borrowed.
type ChanSource struct {
	chunks <-chan []byte
}

// NewChanSource wraps an externally-owned PCM byte-batch channel.
func NewChanSource(chunks <-chan []byte) *ChanSource {
	return &ChanSource{chunks: chunks}
}

func (s *ChanSource) Chunks() <-chan []byte { return s.chunks }
func (s *ChanSource) Errors() <-chan error  { return nil }
func (s *ChanSource) Close() error          { return nil }
