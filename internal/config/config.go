package config

import (
	"fmt"

	"github.com/silerovad/vad-stream/internal/vad"
)

const (
	DefaultLogLevel = "info"
	DefaultModel    = vad.ModelV4
	DefaultEngine   = "auto"
)

// Config holds the vadreplay demo's runtime configuration: ambient
// concerns (logging, engine backend selection) plus the VAD engine's own
// parameters, loaded flat so each field maps to a single env var override
// (see Loader).
type Config struct {
	LogLevel string `json:"log_level"`

	// Engine selects the model backend: "auto" (silero if compiled in,
	// else stub), "silero", or "stub".
	Engine string `json:"engine"`

	Model                   vad.ModelVersion `json:"model"`
	PositiveSpeechThreshold float64          `json:"positive_speech_threshold"`
	NegativeSpeechThreshold float64          `json:"negative_speech_threshold"`
	FrameSamples            int              `json:"frame_samples"`
	RedemptionFrames        int              `json:"redemption_frames"`
	PreSpeechPadFrames      int              `json:"pre_speech_pad_frames"`
	MinSpeechFrames         int              `json:"min_speech_frames"`
	EndSpeechPadFrames      int              `json:"end_speech_pad_frames"`
	NumFramesToEmit         int              `json:"num_frames_to_emit"`
	SubmitUserSpeechOnPause bool             `json:"submit_user_speech_on_pause"`
}

// VADConfig converts c to a vad.Config. Any threshold/frame-count field
// still at its zero value is filled in from the model version's defaults;
// NumFramesToEmit and SubmitUserSpeechOnPause are carried through as-is
// since zero is a meaningful value for both.
func (c Config) VADConfig() vad.Config {
	base := vad.DefaultConfig(c.Model)
	if c.PositiveSpeechThreshold != 0 {
		base.PositiveSpeechThreshold = c.PositiveSpeechThreshold
	}
	if c.NegativeSpeechThreshold != 0 {
		base.NegativeSpeechThreshold = c.NegativeSpeechThreshold
	}
	if c.FrameSamples != 0 {
		base.FrameSamples = c.FrameSamples
	}
	if c.RedemptionFrames != 0 {
		base.RedemptionFrames = c.RedemptionFrames
	}
	if c.PreSpeechPadFrames != 0 {
		base.PreSpeechPadFrames = c.PreSpeechPadFrames
	}
	if c.MinSpeechFrames != 0 {
		base.MinSpeechFrames = c.MinSpeechFrames
	}
	if c.EndSpeechPadFrames != 0 {
		base.EndSpeechPadFrames = c.EndSpeechPadFrames
	}
	base.NumFramesToEmit = c.NumFramesToEmit
	base.SubmitUserSpeechOnPause = c.SubmitUserSpeechOnPause
	return base.WithModelDefaults()
}

// Validate checks the ambient fields and, via VADConfig, the VAD fields.
func (c Config) Validate() error {
	if c.Model != vad.ModelV4 && c.Model != vad.ModelV5 {
		return fmt.Errorf("config: model must be %q or %q, got %q", vad.ModelV4, vad.ModelV5, c.Model)
	}
	if c.LogLevel == "" {
		return fmt.Errorf("config: log_level must not be empty")
	}
	switch c.Engine {
	case "auto", "silero", "stub":
	default:
		return fmt.Errorf("config: engine must be %q, %q or %q, got %q", "auto", "silero", "stub", c.Engine)
	}
	return c.VADConfig().Validate()
}
