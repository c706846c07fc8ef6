package vad

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// outputChanCap sizes every per-kind output channel. Generous but finite:
// a consumer that falls permanently behind will eventually block the
// processing goroutine, preserving in-order delivery rather than dropping
// events.
const outputChanCap = 256

// NewModelFunc constructs a ModelRunner for the given config. Handler calls
// it exactly once per startListening that (re)builds the iterator.
type NewModelFunc func(Config) (ModelRunner, error)

// Handler coordinates lifecycle control (start/pause/resume/stop/dispose)
// around a single Iterator, fanning out its events onto seven named
// channels. It owns at most one processing goroutine at a time, giving each
// stream its own isolated engine instance.
type Handler struct {
	log      *slog.Logger
	newModel NewModelFunc

	mu       sync.Mutex
	cfg      Config
	it       *Iterator
	source   AudioSource
	ownsSrc  bool
	cancel   chan struct{}
	done     chan struct{}
	paused   atomic.Bool
	disposed bool

	speechStartCh     chan Event
	realSpeechStartCh chan Event
	speechEndCh       chan Event
	frameProcessedCh  chan Event
	misfireCh         chan Event
	chunkCh           chan Event
	errorCh           chan Event
}

// NewHandler builds a Handler with no active session. logger may be nil, in
// which case slog.Default() is used, matching server.New's convention.
func NewHandler(logger *slog.Logger, newModel NewModelFunc) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		log:               logger.With("component", "handler"),
		newModel:          newModel,
		speechStartCh:     make(chan Event, outputChanCap),
		realSpeechStartCh: make(chan Event, outputChanCap),
		speechEndCh:       make(chan Event, outputChanCap),
		frameProcessedCh:  make(chan Event, outputChanCap),
		misfireCh:         make(chan Event, outputChanCap),
		chunkCh:           make(chan Event, outputChanCap),
		errorCh:           make(chan Event, outputChanCap),
	}
}

func (h *Handler) SpeechStart() <-chan Event     { return h.speechStartCh }
func (h *Handler) RealSpeechStart() <-chan Event { return h.realSpeechStartCh }
func (h *Handler) SpeechEnd() <-chan Event       { return h.speechEndCh }
func (h *Handler) FrameProcessed() <-chan Event  { return h.frameProcessedCh }
func (h *Handler) Misfire() <-chan Event         { return h.misfireCh }
func (h *Handler) Chunk() <-chan Event           { return h.chunkCh }
func (h *Handler) Error() <-chan Event           { return h.errorCh }

// StartListening (re)subscribes to source using cfg. With source == nil,
// this is treated as a resume: if the config is unchanged and a session is
// already live, the paused flag is simply cleared (§4.1 pause semantics).
// Otherwise a source is required, since this repo implements no platform
// microphone backend (§4.1.1).
func (h *Handler) StartListening(cfg Config, source AudioSource) error {
	cfg = cfg.WithModelDefaults()
	if err := cfg.Validate(); err != nil {
		h.emitConfigError(err)
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.disposed {
		err := newError(ErrorKindInternal, "startListening called after dispose")
		h.emitLocked(newErrEvent(ErrorKindInternal, err.Error()))
		return err
	}

	if h.it != nil && source == nil && h.cfg.Equal(cfg) {
		h.paused.Store(false)
		h.log.Info("listening resumed")
		return nil
	}

	if source == nil {
		err := newError(ErrorKindCaptureFailure, "no audio source supplied: platform microphone capture is not implemented, supply an external PCM stream")
		h.emitLocked(newErrEvent(ErrorKindCaptureFailure, err.Error()))
		return err
	}

	h.stopLocked()

	model, err := h.newModel(cfg)
	if err != nil {
		wrapped := wrapError(ErrorKindModelLoadFailure, err, "model load failed")
		h.emitLocked(newErrEvent(ErrorKindModelLoadFailure, wrapped.Error()))
		return wrapped
	}

	h.cfg = cfg
	h.it = NewIterator(cfg, model)
	h.source = source
	h.ownsSrc = false
	h.paused.Store(false)
	h.cancel = make(chan struct{})
	h.done = make(chan struct{})

	frameDuration := time.Duration(float64(cfg.FrameSamples) * float64(time.Second) / float64(cfg.SampleRate))
	go h.run(source, h.it, frameDuration, &h.paused, h.cancel, h.done)

	h.log.Info("listening started", "model", cfg.Model, "frameSamples", cfg.FrameSamples)
	return nil
}

// PauseListening drops incoming audio until resumed, preserving all session
// state. If cfg.SubmitUserSpeechOnPause is set, any active utterance is
// force-ended first.
func (h *Handler) PauseListening() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.it == nil {
		return
	}
	if h.cfg.SubmitUserSpeechOnPause {
		h.emitAllLocked(h.it.ForceEndSpeech())
	}
	h.paused.Store(true)
	h.log.Info("listening paused")
}

// StopListening cancels the input subscription, force-ends an active
// utterance if configured to, releases the model, and drops the iterator.
// Safe to call when no session is active.
func (h *Handler) StopListening() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopLocked()
}

// stopLocked must be called with h.mu held.
func (h *Handler) stopLocked() {
	if h.it == nil {
		return
	}
	if h.cfg.SubmitUserSpeechOnPause {
		h.emitAllLocked(h.it.ForceEndSpeech())
	}
	close(h.cancel)
	h.mu.Unlock()
	<-h.done
	h.mu.Lock()

	if h.ownsSrc {
		if err := h.source.Close(); err != nil {
			h.log.Warn("audio source close failed", "err", err)
		}
	}
	if err := h.it.Close(); err != nil {
		h.log.Warn("model close failed", "err", err)
	}
	h.it = nil
	h.source = nil
	h.log.Info("listening stopped")
}

// Dispose stops any active session, then closes every output channel.
// Further StartListening calls return an error; other Handler calls are
// no-ops.
func (h *Handler) Dispose() {
	h.mu.Lock()
	h.stopLocked()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	h.mu.Unlock()

	close(h.speechStartCh)
	close(h.realSpeechStartCh)
	close(h.speechEndCh)
	close(h.frameProcessedCh)
	close(h.misfireCh)
	close(h.chunkCh)
	close(h.errorCh)
	h.log.Info("disposed")
}

func (h *Handler) emitConfigError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return
	}
	h.errorCh <- newErrEvent(ErrorKindConfigInvalid, err.Error())
}

// emitLocked and emitAllLocked must be called with h.mu held, and only
// before dispose (callers that might race dispose guard on h.disposed).
func (h *Handler) emitLocked(ev Event) {
	if h.disposed {
		return
	}
	h.dispatch(ev)
}

// emitAllLocked delivers force-end events produced outside the stream-clock
// loop (pause/stop), stamping them with wall-clock time since no audio-time
// reference is available for a force-ended utterance.
func (h *Handler) emitAllLocked(events []Event) {
	ts := timestamppb.New(now())
	for _, ev := range events {
		ev.Timestamp = ts
		h.emitLocked(ev)
	}
}

// dispatch routes ev onto its matching channel. Used both directly (under
// h.mu, at lifecycle boundaries) and by the processing goroutine (which
// touches no other Handler field, so needs no lock).
func (h *Handler) dispatch(ev Event) {
	switch ev.Kind {
	case EventSpeechStart:
		h.speechStartCh <- ev
	case EventRealSpeechStart:
		h.realSpeechStartCh <- ev
	case EventSpeechEnd:
		h.speechEndCh <- ev
	case EventFrameProcessed:
		h.frameProcessedCh <- ev
	case EventMisfire:
		h.misfireCh <- ev
	case EventChunk:
		h.chunkCh <- ev
	case EventErr:
		h.errorCh <- ev
	}
}

// run is the single processing goroutine for one session. It reads only the
// parameters captured at spawn time plus paused, never Handler fields
// directly, so it needs no lock and StartListening/StopListening never
// contend with it for anything but the channel sends.
func (h *Handler) run(source AudioSource, it *Iterator, frameDuration time.Duration, paused *atomic.Bool, cancel <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	chunks := source.Chunks()
	errs := source.Errors()
	var streamStart time.Time
	var frameCount int64

	for {
		select {
		case <-cancel:
			return
		case errc, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if paused.Load() {
				continue
			}
			h.dispatch(newErrEvent(ErrorKindCaptureFailure, wrapError(ErrorKindCaptureFailure, errc, "audio source error").Error()))
		case pcm, ok := <-chunks:
			if !ok {
				return
			}
			if paused.Load() {
				continue
			}
			if streamStart.IsZero() {
				streamStart = now()
			}
			for _, events := range it.ProcessPCMFrames(pcm) {
				ts := timestamppb.New(streamStart.Add(time.Duration(frameCount) * frameDuration))
				for _, ev := range events {
					ev.Timestamp = ts
					h.dispatch(ev)
				}
				frameCount++
			}
		}
	}
}

// now is isolated behind a var so tests can fake the clock without the
// handler depending on an injected Clock type for this one call site.
var now = time.Now
