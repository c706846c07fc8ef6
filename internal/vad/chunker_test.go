package vad

import "testing"

func frame(samples ...float32) []float32 { return samples }

func TestChunkEmitterInactiveWhenZero(t *testing.T) {
	c := newChunkEmitter(0)
	c.push(frame(1, 2))
	if chunks := c.drainReady(0); chunks != nil {
		t.Errorf("expected nil from inactive emitter, got %v", chunks)
	}
	if _, ok := c.flushFinal(); ok {
		t.Error("expected flushFinal ok=false for inactive emitter")
	}
}

func TestChunkEmitterDrainsCompleteGroups(t *testing.T) {
	c := newChunkEmitter(2)
	c.push(frame(0, 0))
	c.push(frame(0, 0))
	chunks := c.drainReady(0)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	if len(chunks[0]) != 8 { // 2 frames * 2 samples * 2 bytes
		t.Errorf("chunk length = %d, want 8", len(chunks[0]))
	}
	if chunks2 := c.drainReady(0); len(chunks2) != 0 {
		t.Errorf("expected no more ready chunks, got %d", len(chunks2))
	}
}

func TestChunkEmitterFlushFinalClears(t *testing.T) {
	c := newChunkEmitter(4)
	c.push(frame(0))
	payload, ok := c.flushFinal()
	if !ok {
		t.Fatal("expected ok=true for active emitter")
	}
	if len(payload) != 2 {
		t.Errorf("payload length = %d, want 2", len(payload))
	}
	payload2, ok := c.flushFinal()
	if !ok || len(payload2) != 0 {
		t.Errorf("expected empty final flush after clear, got %v, ok=%v", payload2, ok)
	}
}

func TestChunkEmitterDiscard(t *testing.T) {
	c := newChunkEmitter(4)
	c.push(frame(0))
	c.discard()
	payload, _ := c.flushFinal()
	if len(payload) != 0 {
		t.Errorf("expected empty payload after discard, got %v", payload)
	}
}

func TestEncodePCM16ClampsOutOfRange(t *testing.T) {
	out := encodePCM16([][]float32{{2.0, -2.0}})
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	// 2.0 clamps to int16 max (32767), little-endian.
	if out[0] != 0xFF || out[1] != 0x7F {
		t.Errorf("clamped max sample = %02x%02x, want ff7f", out[1], out[0])
	}
	// -2.0 clamps to int16 min (-32768), little-endian.
	if out[2] != 0x00 || out[3] != 0x80 {
		t.Errorf("clamped min sample = %02x%02x, want 8000", out[3], out[2])
	}
}

func TestChunkEmitterDrainReadyWithholdsHoldback(t *testing.T) {
	c := newChunkEmitter(2)
	for i := 0; i < 6; i++ {
		c.push(frame(float32(i)))
	}
	// 6 frames, holdback 4: only the leading 2 are eligible, one group drains.
	chunks := c.drainReady(4)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	if len(c.accumulator) != 4 {
		t.Fatalf("len(accumulator) = %d, want 4 held back", len(c.accumulator))
	}
	// Nothing more is eligible until the holdback zone shrinks or grows.
	if chunks2 := c.drainReady(4); len(chunks2) != 0 {
		t.Errorf("expected no more ready chunks under the same holdback, got %d", len(chunks2))
	}
}

func TestChunkEmitterTrimRedemptionTail(t *testing.T) {
	c := newChunkEmitter(10)
	for i := 0; i < 5; i++ {
		c.push(frame(float32(i)))
	}
	endPad := [][]float32{{10}, {11}}
	c.trimRedemptionTail(2, endPad, 1)
	payload, _ := c.flushFinal()
	// 5 frames - 2 trimmed + 1 reattached = 4 frames = 8 bytes.
	if len(payload) != 8 {
		t.Fatalf("payload length = %d, want 8", len(payload))
	}
}
