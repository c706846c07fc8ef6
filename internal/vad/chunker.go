package vad

import "math"

// chunkEmitter accumulates frames captured during an active utterance and
// packages them into PCM16LE chunks: one every numFramesToEmit frames while
// speech continues, plus a guaranteed final chunk on end. A chunkEmitter
// with numFramesToEmit == 0 is inactive and never produces a chunk.
type chunkEmitter struct {
	numFramesToEmit int
	accumulator     [][]float32
}

func newChunkEmitter(numFramesToEmit int) *chunkEmitter {
	return &chunkEmitter{numFramesToEmit: numFramesToEmit}
}

func (c *chunkEmitter) active() bool { return c.numFramesToEmit > 0 }

func (c *chunkEmitter) push(frame []float32) {
	if !c.active() {
		return
	}
	c.accumulator = append(c.accumulator, frame)
}

func (c *chunkEmitter) pushAll(frames [][]float32) {
	for _, f := range frames {
		c.push(f)
	}
}

// drainReady packages and removes as many complete numFramesToEmit-sized
// groups as the accumulator currently holds, returning zero or more
// intermediate chunk payloads in order. The trailing holdback frames are
// never drained, even if they complete a group: they are the live
// redemption window, which trimRedemptionTail may still need to strip out
// whole before any of it reaches the chunk channel.
func (c *chunkEmitter) drainReady(holdback int) [][]byte {
	if !c.active() {
		return nil
	}
	var chunks [][]byte
	for len(c.accumulator)-holdback >= c.numFramesToEmit {
		group := c.accumulator[:c.numFramesToEmit]
		chunks = append(chunks, encodePCM16(group))
		c.accumulator = c.accumulator[c.numFramesToEmit:]
	}
	return chunks
}

// trimRedemptionTail mirrors the trim applied to the utterance buffer at
// end-of-speech: the last redemptionFrames frames (the full redemption
// tail) are removed, then the first keep frames of endPad are reattached.
func (c *chunkEmitter) trimRedemptionTail(redemptionFrames int, endPad [][]float32, keep int) {
	if !c.active() {
		return
	}
	n := redemptionFrames
	if n > len(c.accumulator) {
		n = len(c.accumulator)
	}
	c.accumulator = c.accumulator[:len(c.accumulator)-n]
	if keep > len(endPad) {
		keep = len(endPad)
	}
	c.accumulator = append(c.accumulator, endPad[:keep]...)
}

// flushFinal packages and clears whatever remains in the accumulator,
// even if empty, as the guaranteed final chunk. ok is false when the
// emitter is inactive, in which case no final chunk should be emitted.
func (c *chunkEmitter) flushFinal() (payload []byte, ok bool) {
	if !c.active() {
		return nil, false
	}
	payload = encodePCM16(c.accumulator)
	c.accumulator = nil
	return payload, true
}

// discard drops the accumulator without producing a chunk, used on misfire.
func (c *chunkEmitter) discard() {
	c.accumulator = nil
}

// encodePCM16 packages frames of float32 samples in [-1, 1] into PCM16LE
// bytes, clamping and rounding each sample to the int16 range.
func encodePCM16(frames [][]float32) []byte {
	total := 0
	for _, f := range frames {
		total += len(f)
	}
	out := make([]byte, 0, total*2)
	for _, frame := range frames {
		for _, x := range frame {
			s := int32(math.Round(float64(x) * 32768))
			if s > 32767 {
				s = 32767
			} else if s < -32768 {
				s = -32768
			}
			u := uint16(int16(s))
			out = append(out, byte(u), byte(u>>8))
		}
	}
	return out
}
