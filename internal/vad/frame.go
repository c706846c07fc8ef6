package vad

// frameAssembler turns an arbitrary-length stream of PCM16LE bytes into
// fixed-length float32 frames normalized to [-1, 1].
type frameAssembler struct {
	frameSamples int
	oddByte      []byte // 0 or 1 held-over byte from a split sample
	pending      []float32
}

func newFrameAssembler(frameSamples int) *frameAssembler {
	return &frameAssembler{frameSamples: frameSamples}
}

// push appends a byte batch and returns every complete frame it produced, in
// order. Frames are independent copies safe to retain past the next push.
func (a *frameAssembler) push(pcm []byte) [][]float32 {
	if len(a.oddByte) == 1 {
		pcm = append(append([]byte{}, a.oddByte...), pcm...)
		a.oddByte = nil
	}
	n := len(pcm) - len(pcm)%2
	if n < len(pcm) {
		a.oddByte = append(a.oddByte, pcm[n:]...)
	}
	a.pending = append(a.pending, pcmToFloat32(pcm[:n])...)

	var frames [][]float32
	for len(a.pending) >= a.frameSamples {
		frame := make([]float32, a.frameSamples)
		copy(frame, a.pending[:a.frameSamples])
		frames = append(frames, frame)
		a.pending = a.pending[a.frameSamples:]
	}
	return frames
}

// pcmToFloat32 converts signed 16-bit little-endian PCM bytes to float32
// samples in [-1, 1]. len(buf) must be even.
func pcmToFloat32(buf []byte) []float32 {
	n := len(buf) / 2
	if n == 0 {
		return nil
	}
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		u := uint16(buf[2*i]) | uint16(buf[2*i+1])<<8
		samples[i] = float32(int16(u)) / 32768.0
	}
	return samples
}
