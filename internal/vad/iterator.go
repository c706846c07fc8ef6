package vad

// Iterator is the streaming VAD state machine. It owns the frame assembler,
// the model runner's recurrent state, and the speech session state, and
// turns a byte stream into a sequence of lifecycle Events.
//
// An Iterator is single-writer: ProcessPCM must not be called concurrently
// with itself, ForceEndSpeech, or Reset. The Handler enforces this by
// running all three on one goroutine.
type Iterator struct {
	cfg   Config
	model ModelRunner
	asm   *frameAssembler
	sess  *session
}

// NewIterator builds an Iterator bound to cfg and model. cfg must already
// be validated (see Config.Validate); model's recurrent state is assumed
// freshly reset.
func NewIterator(cfg Config, model ModelRunner) *Iterator {
	return &Iterator{
		cfg:   cfg,
		model: model,
		asm:   newFrameAssembler(cfg.FrameSamples),
		sess:  newSession(cfg),
	}
}

// ProcessPCM assembles pcm into frames and runs each through the model and
// state machine, returning every event produced in order. An inference
// failure is reported as an EventErr for that frame and the frame is
// skipped — recurrent state and session state are left unchanged; it is
// not a fatal error.
func (it *Iterator) ProcessPCM(pcm []byte) []Event {
	var events []Event
	for _, group := range it.ProcessPCMFrames(pcm) {
		events = append(events, group...)
	}
	return events
}

// ProcessPCMFrames is ProcessPCM with events grouped by the input frame that
// produced them, one group per frame in order. The Handler uses the
// grouping to stamp every event from one frame with the same audio
// timestamp before counting that frame towards the stream clock.
func (it *Iterator) ProcessPCMFrames(pcm []byte) [][]Event {
	var groups [][]Event
	for _, frame := range it.asm.push(pcm) {
		prob, err := it.model.Evaluate(frame)
		if err != nil {
			wrapped := wrapError(ErrorKindInferenceFailure, err, "frame evaluation failed")
			groups = append(groups, []Event{newErrEvent(ErrorKindInferenceFailure, wrapped.Error())})
			continue
		}
		groups = append(groups, it.sess.step(it.cfg, frame, prob))
	}
	return groups
}

// ForceEndSpeech force-ends an active utterance (see session.forceEnd),
// returning any events produced. It is a no-op while Idle.
func (it *Iterator) ForceEndSpeech() []Event {
	return it.sess.forceEnd(it.cfg)
}

// Reset unconditionally drops all session and recurrent state to Idle
// without emitting events.
func (it *Iterator) Reset() error {
	it.sess.reset(it.cfg)
	return it.model.Reset()
}

// Close releases the underlying model's resources.
func (it *Iterator) Close() error {
	return it.model.Close()
}
