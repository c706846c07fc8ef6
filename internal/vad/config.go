package vad

// ModelVersion selects the Silero model weights and recurrent-state shape.
type ModelVersion string

const (
	ModelV4 ModelVersion = "v4"
	ModelV5 ModelVersion = "v5"
)

// Default parameter values, keyed to the v4 model. Selecting ModelV5 remaps
// any field still holding its v4 default (see Config.WithModelDefaults).
const (
	DefaultSampleRate              = 16000
	DefaultPositiveSpeechThreshold = 0.5
	DefaultNegativeSpeechThreshold = 0.35
	DefaultNumFramesToEmit         = 0

	DefaultFrameSamplesV4      = 1536
	DefaultRedemptionFramesV4  = 8
	DefaultPreSpeechPadFramesV4 = 1
	DefaultMinSpeechFramesV4   = 3
	DefaultEndSpeechPadFramesV4 = 1

	DefaultFrameSamplesV5      = 512
	DefaultRedemptionFramesV5  = 24
	DefaultPreSpeechPadFramesV5 = 3
	DefaultMinSpeechFramesV5   = 9
	DefaultEndSpeechPadFramesV5 = 3
)

// Config holds the immutable-per-session VAD parameters. A zero Config is
// not valid; start from DefaultConfig.
type Config struct {
	SampleRate              int
	FrameSamples            int
	PositiveSpeechThreshold float64
	NegativeSpeechThreshold float64
	RedemptionFrames        int
	PreSpeechPadFrames      int
	MinSpeechFrames         int
	EndSpeechPadFrames      int
	NumFramesToEmit         int
	Model                   ModelVersion

	// SubmitUserSpeechOnPause makes pauseListening/stopListening force-end
	// any active utterance. Without it, pause leaves the utterance open and
	// stop discards it silently.
	SubmitUserSpeechOnPause bool
}

// DefaultConfig returns the v4-keyed defaults for the given model version.
// Callers that want v5 should either pass ModelV5 here, or build a Config
// with ModelV4 defaults and later set Model = ModelV5 before calling
// WithModelDefaults — both paths remap identically.
func DefaultConfig(model ModelVersion) Config {
	cfg := Config{
		SampleRate:              DefaultSampleRate,
		FrameSamples:            DefaultFrameSamplesV4,
		PositiveSpeechThreshold: DefaultPositiveSpeechThreshold,
		NegativeSpeechThreshold: DefaultNegativeSpeechThreshold,
		RedemptionFrames:        DefaultRedemptionFramesV4,
		PreSpeechPadFrames:      DefaultPreSpeechPadFramesV4,
		MinSpeechFrames:         DefaultMinSpeechFramesV4,
		EndSpeechPadFrames:      DefaultEndSpeechPadFramesV4,
		NumFramesToEmit:         DefaultNumFramesToEmit,
		Model:                   model,
	}
	return cfg.WithModelDefaults()
}

// WithModelDefaults applies the v5 parameter remapping documented in the
// handler's model-version-defaults rule: when Model is v5, any field still
// holding its v4 default value is remapped to the v5 default. Fields the
// caller has already overridden away from the v4 default are left alone.
func (c Config) WithModelDefaults() Config {
	if c.Model != ModelV5 {
		return c
	}
	if c.PreSpeechPadFrames == DefaultPreSpeechPadFramesV4 {
		c.PreSpeechPadFrames = DefaultPreSpeechPadFramesV5
	}
	if c.RedemptionFrames == DefaultRedemptionFramesV4 {
		c.RedemptionFrames = DefaultRedemptionFramesV5
	}
	if c.FrameSamples == DefaultFrameSamplesV4 {
		c.FrameSamples = DefaultFrameSamplesV5
	}
	if c.MinSpeechFrames == DefaultMinSpeechFramesV4 {
		c.MinSpeechFrames = DefaultMinSpeechFramesV5
	}
	if c.EndSpeechPadFrames == DefaultEndSpeechPadFramesV4 {
		c.EndSpeechPadFrames = DefaultEndSpeechPadFramesV5
	}
	return c
}

// Validate checks the invariants the iterator relies on, returning a
// *Error with Kind ConfigInvalid describing the first violation found.
func (c Config) Validate() error {
	if c.SampleRate != DefaultSampleRate {
		return newError(ErrorKindConfigInvalid, "sample rate must be %d, got %d", DefaultSampleRate, c.SampleRate)
	}
	if c.FrameSamples <= 0 {
		return newError(ErrorKindConfigInvalid, "frameSamples must be positive, got %d", c.FrameSamples)
	}
	if c.PositiveSpeechThreshold <= 0 || c.PositiveSpeechThreshold >= 1 {
		return newError(ErrorKindConfigInvalid, "positiveSpeechThreshold must be in (0,1), got %v", c.PositiveSpeechThreshold)
	}
	if c.NegativeSpeechThreshold <= 0 || c.NegativeSpeechThreshold >= 1 {
		return newError(ErrorKindConfigInvalid, "negativeSpeechThreshold must be in (0,1), got %v", c.NegativeSpeechThreshold)
	}
	if c.NegativeSpeechThreshold >= c.PositiveSpeechThreshold {
		return newError(ErrorKindConfigInvalid, "negativeSpeechThreshold (%v) must be less than positiveSpeechThreshold (%v)", c.NegativeSpeechThreshold, c.PositiveSpeechThreshold)
	}
	if c.RedemptionFrames < 1 {
		return newError(ErrorKindConfigInvalid, "redemptionFrames must be >= 1, got %d", c.RedemptionFrames)
	}
	if c.PreSpeechPadFrames < 0 {
		return newError(ErrorKindConfigInvalid, "preSpeechPadFrames must be >= 0, got %d", c.PreSpeechPadFrames)
	}
	if c.MinSpeechFrames < 1 {
		return newError(ErrorKindConfigInvalid, "minSpeechFrames must be >= 1, got %d", c.MinSpeechFrames)
	}
	if c.EndSpeechPadFrames < 0 {
		return newError(ErrorKindConfigInvalid, "endSpeechPadFrames must be >= 0, got %d", c.EndSpeechPadFrames)
	}
	if c.NumFramesToEmit < 0 {
		return newError(ErrorKindConfigInvalid, "numFramesToEmit must be >= 0, got %d", c.NumFramesToEmit)
	}
	if c.Model != ModelV4 && c.Model != ModelV5 {
		return newError(ErrorKindConfigInvalid, "model must be %q or %q, got %q", ModelV4, ModelV5, c.Model)
	}
	return nil
}

// Equal reports whether two configs are identical in every field the
// handler's reconfiguration rule compares. Used to decide whether
// startListening must tear down and rebuild the iterator.
func (c Config) Equal(other Config) bool {
	return c == other
}
