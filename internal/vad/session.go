package vad

import "github.com/google/uuid"

// session holds the mutable per-utterance state the speech state machine
// advances one frame at a time. It implements the Idle/Speaking hysteresis
// and redemption protocol.
type session struct {
	speaking           bool
	positiveFrameCount int
	redemptionCounter  int
	realStartEmitted   bool
	utteranceID        uuid.UUID

	preBuf          *preSpeechRing
	utteranceBuffer [][]float32
	endPadBuffer    [][]float32
	chunker         *chunkEmitter
}

func newSession(cfg Config) *session {
	return &session{
		preBuf:  newPreSpeechRing(cfg.PreSpeechPadFrames),
		chunker: newChunkEmitter(cfg.NumFramesToEmit),
	}
}

// step advances the state machine by one frame carrying probability prob,
// returning the events produced, in emission order. frameProcessed is
// always last, per the component design's step ordering.
func (s *session) step(cfg Config, frame []float32, prob float64) []Event {
	var events []Event
	id := s.utteranceID

	if !s.speaking {
		s.preBuf.push(frame)
		if prob >= cfg.PositiveSpeechThreshold {
			events = append(events, s.beginSpeech(cfg, frame)...)
		}
	} else {
		s.utteranceBuffer = append(s.utteranceBuffer, frame)
		s.chunker.push(frame)

		switch {
		case prob >= cfg.PositiveSpeechThreshold:
			s.positiveFrameCount++
			s.redemptionCounter = 0
			s.endPadBuffer = nil
			events = append(events, s.maybeEmitRealStart(cfg)...)
		case prob < cfg.NegativeSpeechThreshold:
			s.redemptionCounter++
			s.endPadBuffer = append(s.endPadBuffer, frame)
			if s.redemptionCounter >= cfg.RedemptionFrames {
				events = append(events, s.endOfSpeech(cfg, true)...)
			}
		default:
			// Hold: between thresholds, neither advance nor reset redemption.
		}
	}

	if s.speaking {
		// Withhold the last RedemptionFrames frames from draining: they are
		// the live redemption window, and endOfSpeech's trimRedemptionTail
		// must still be able to strip them out before a speech end is
		// confirmed — see trimRedemptionTail.
		for _, payload := range s.chunker.drainReady(cfg.RedemptionFrames) {
			events = append(events, newChunkEvent(s.utteranceID, payload, false))
		}
	}

	if s.speaking {
		id = s.utteranceID
	}
	fp := newFrameProcessedEvent(prob, frame)
	fp.UtteranceID = id
	events = append(events, fp)
	return events
}

// beginSpeech performs the Idle→Speaking transition: drains the pre-speech
// ring into the utterance, then appends the triggering frame itself.
func (s *session) beginSpeech(cfg Config, frame []float32) []Event {
	drained := s.preBuf.drainAll()
	s.utteranceBuffer = append(s.utteranceBuffer, drained...)
	s.chunker.pushAll(drained)
	s.utteranceBuffer = append(s.utteranceBuffer, frame)
	s.chunker.push(frame)

	s.speaking = true
	s.positiveFrameCount = 1
	s.redemptionCounter = 0
	s.realStartEmitted = false
	s.endPadBuffer = nil
	s.utteranceID = uuid.New()

	events := []Event{newSpeechStartEvent(s.utteranceID)}
	events = append(events, s.maybeEmitRealStart(cfg)...)
	return events
}

func (s *session) maybeEmitRealStart(cfg Config) []Event {
	if !s.realStartEmitted && s.positiveFrameCount >= cfg.MinSpeechFrames {
		s.realStartEmitted = true
		return []Event{newRealSpeechStartEvent(s.utteranceID)}
	}
	return nil
}

// endOfSpeech concludes the current utterance. When triggeredByRedemption is
// true, the redemption tail is trimmed and the end-speech pad reattached
// before the minSpeechFrames gate decides speechEnd vs misfire. When false
// (forceEndSpeech), no trim is applied and speechEnd is unconditional.
func (s *session) endOfSpeech(cfg Config, triggeredByRedemption bool) []Event {
	if triggeredByRedemption {
		keep := cfg.EndSpeechPadFrames
		if keep > cfg.RedemptionFrames {
			keep = cfg.RedemptionFrames
		}
		s.chunker.trimRedemptionTail(cfg.RedemptionFrames, s.endPadBuffer, keep)

		n := cfg.RedemptionFrames
		if n > len(s.utteranceBuffer) {
			n = len(s.utteranceBuffer)
		}
		s.utteranceBuffer = s.utteranceBuffer[:len(s.utteranceBuffer)-n]
		if keep > len(s.endPadBuffer) {
			keep = len(s.endPadBuffer)
		}
		s.utteranceBuffer = append(s.utteranceBuffer, s.endPadBuffer[:keep]...)
	}

	id := s.utteranceID
	misfire := triggeredByRedemption && s.positiveFrameCount < cfg.MinSpeechFrames

	var events []Event
	if misfire {
		s.chunker.discard()
		events = append(events, newMisfireEvent(id))
	} else {
		events = append(events, newSpeechEndEvent(id, flattenFrames(s.utteranceBuffer)))
		if payload, ok := s.chunker.flushFinal(); ok {
			events = append(events, newChunkEvent(id, payload, true))
		}
	}

	s.resetToIdle(cfg)
	return events
}

// forceEnd is invoked by the handler's pause/stop path when
// submitUserSpeechOnPause is set. It is a no-op while Idle.
func (s *session) forceEnd(cfg Config) []Event {
	if !s.speaking {
		return nil
	}
	return s.endOfSpeech(cfg, false)
}

func (s *session) resetToIdle(cfg Config) {
	s.speaking = false
	s.positiveFrameCount = 0
	s.redemptionCounter = 0
	s.realStartEmitted = false
	s.utteranceID = uuid.UUID{}
	s.utteranceBuffer = nil
	s.endPadBuffer = nil
	s.chunker = newChunkEmitter(cfg.NumFramesToEmit)
}

// reset unconditionally drops all session state to Idle without emitting
// events, including the pre-speech ring (used by Iterator.Reset).
func (s *session) reset(cfg Config) {
	s.resetToIdle(cfg)
	s.preBuf = newPreSpeechRing(cfg.PreSpeechPadFrames)
}

func flattenFrames(frames [][]float32) []float32 {
	total := 0
	for _, f := range frames {
		total += len(f)
	}
	out := make([]float32, 0, total)
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}
