package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/silerovad/vad-stream/internal/vad"
)

// Loader loads configuration from environment variables. Tests can override
// Lookup to inject deterministic maps.
type Loader struct {
	Lookup func(string) (string, bool)
}

// Load retrieves the vadreplay configuration from environment variables:
// a single JSON-blob override (VAD_CONFIG), then individual env var
// overrides, then validation.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := Config{
		LogLevel: DefaultLogLevel,
		Engine:   DefaultEngine,
		Model:    DefaultModel,
	}

	if raw, ok := l.Lookup("VAD_CONFIG"); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(l.Lookup, "VAD_LOG_LEVEL", &cfg.LogLevel)
	overrideString(l.Lookup, "VAD_ENGINE", &cfg.Engine)
	overrideModel(l.Lookup, "VAD_MODEL", &cfg.Model)
	if err := overrideFloat(l.Lookup, "VAD_POSITIVE_SPEECH_THRESHOLD", &cfg.PositiveSpeechThreshold); err != nil {
		return Config{}, err
	}
	if err := overrideFloat(l.Lookup, "VAD_NEGATIVE_SPEECH_THRESHOLD", &cfg.NegativeSpeechThreshold); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "VAD_FRAME_SAMPLES", &cfg.FrameSamples); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "VAD_REDEMPTION_FRAMES", &cfg.RedemptionFrames); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "VAD_PRE_SPEECH_PAD_FRAMES", &cfg.PreSpeechPadFrames); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "VAD_MIN_SPEECH_FRAMES", &cfg.MinSpeechFrames); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "VAD_END_SPEECH_PAD_FRAMES", &cfg.EndSpeechPadFrames); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "VAD_NUM_FRAMES_TO_EMIT", &cfg.NumFramesToEmit); err != nil {
		return Config{}, err
	}
	if err := overrideBool(l.Lookup, "VAD_SUBMIT_USER_SPEECH_ON_PAUSE", &cfg.SubmitUserSpeechOnPause); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyJSON(raw string, cfg *Config) error {
	type jsonConfig struct {
		LogLevel                string           `json:"log_level"`
		Engine                  string           `json:"engine"`
		Model                   vad.ModelVersion `json:"model"`
		PositiveSpeechThreshold *float64         `json:"positive_speech_threshold"`
		NegativeSpeechThreshold *float64         `json:"negative_speech_threshold"`
		FrameSamples            *int             `json:"frame_samples"`
		RedemptionFrames        *int             `json:"redemption_frames"`
		PreSpeechPadFrames      *int             `json:"pre_speech_pad_frames"`
		MinSpeechFrames         *int             `json:"min_speech_frames"`
		EndSpeechPadFrames      *int             `json:"end_speech_pad_frames"`
		NumFramesToEmit         *int             `json:"num_frames_to_emit"`
		SubmitUserSpeechOnPause *bool            `json:"submit_user_speech_on_pause"`
	}
	var payload jsonConfig
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("config: decode VAD_CONFIG: %w", err)
	}
	if payload.LogLevel != "" {
		cfg.LogLevel = payload.LogLevel
	}
	if payload.Engine != "" {
		cfg.Engine = payload.Engine
	}
	if payload.Model != "" {
		cfg.Model = payload.Model
	}
	if payload.PositiveSpeechThreshold != nil {
		cfg.PositiveSpeechThreshold = *payload.PositiveSpeechThreshold
	}
	if payload.NegativeSpeechThreshold != nil {
		cfg.NegativeSpeechThreshold = *payload.NegativeSpeechThreshold
	}
	if payload.FrameSamples != nil {
		cfg.FrameSamples = *payload.FrameSamples
	}
	if payload.RedemptionFrames != nil {
		cfg.RedemptionFrames = *payload.RedemptionFrames
	}
	if payload.PreSpeechPadFrames != nil {
		cfg.PreSpeechPadFrames = *payload.PreSpeechPadFrames
	}
	if payload.MinSpeechFrames != nil {
		cfg.MinSpeechFrames = *payload.MinSpeechFrames
	}
	if payload.EndSpeechPadFrames != nil {
		cfg.EndSpeechPadFrames = *payload.EndSpeechPadFrames
	}
	if payload.NumFramesToEmit != nil {
		cfg.NumFramesToEmit = *payload.NumFramesToEmit
	}
	if payload.SubmitUserSpeechOnPause != nil {
		cfg.SubmitUserSpeechOnPause = *payload.SubmitUserSpeechOnPause
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideModel(lookup func(string) (string, bool), key string, target *vad.ModelVersion) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = vad.ModelVersion(strings.TrimSpace(value))
	}
}

func overrideFloat(lookup func(string) (string, bool), key string, target *float64) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}
