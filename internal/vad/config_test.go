package vad

import (
	"errors"
	"testing"
)

func TestDefaultConfigV4(t *testing.T) {
	cfg := DefaultConfig(ModelV4)
	if cfg.FrameSamples != DefaultFrameSamplesV4 {
		t.Errorf("FrameSamples = %d, want %d", cfg.FrameSamples, DefaultFrameSamplesV4)
	}
	if cfg.RedemptionFrames != DefaultRedemptionFramesV4 {
		t.Errorf("RedemptionFrames = %d, want %d", cfg.RedemptionFrames, DefaultRedemptionFramesV4)
	}
	if cfg.PreSpeechPadFrames != DefaultPreSpeechPadFramesV4 {
		t.Errorf("PreSpeechPadFrames = %d, want %d", cfg.PreSpeechPadFrames, DefaultPreSpeechPadFramesV4)
	}
	if cfg.MinSpeechFrames != DefaultMinSpeechFramesV4 {
		t.Errorf("MinSpeechFrames = %d, want %d", cfg.MinSpeechFrames, DefaultMinSpeechFramesV4)
	}
	if cfg.EndSpeechPadFrames != DefaultEndSpeechPadFramesV4 {
		t.Errorf("EndSpeechPadFrames = %d, want %d", cfg.EndSpeechPadFrames, DefaultEndSpeechPadFramesV4)
	}
}

func TestDefaultConfigV5RemapsAllFields(t *testing.T) {
	cfg := DefaultConfig(ModelV5)
	if cfg.FrameSamples != DefaultFrameSamplesV5 {
		t.Errorf("FrameSamples = %d, want %d", cfg.FrameSamples, DefaultFrameSamplesV5)
	}
	if cfg.RedemptionFrames != DefaultRedemptionFramesV5 {
		t.Errorf("RedemptionFrames = %d, want %d", cfg.RedemptionFrames, DefaultRedemptionFramesV5)
	}
	if cfg.PreSpeechPadFrames != DefaultPreSpeechPadFramesV5 {
		t.Errorf("PreSpeechPadFrames = %d, want %d", cfg.PreSpeechPadFrames, DefaultPreSpeechPadFramesV5)
	}
	if cfg.MinSpeechFrames != DefaultMinSpeechFramesV5 {
		t.Errorf("MinSpeechFrames = %d, want %d", cfg.MinSpeechFrames, DefaultMinSpeechFramesV5)
	}
	if cfg.EndSpeechPadFrames != DefaultEndSpeechPadFramesV5 {
		t.Errorf("EndSpeechPadFrames = %d, want %d", cfg.EndSpeechPadFrames, DefaultEndSpeechPadFramesV5)
	}
	// Fields with no version-specific default are untouched by the remap.
	if cfg.PositiveSpeechThreshold != DefaultPositiveSpeechThreshold {
		t.Errorf("PositiveSpeechThreshold = %v, want %v", cfg.PositiveSpeechThreshold, DefaultPositiveSpeechThreshold)
	}
}

// TestReconfigurationRemapsV4DefaultsOnV5Switch reproduces a mid-life
// reconfiguration: a caller builds a Config off v4 defaults, then just
// flips Model to v5 before calling WithModelDefaults, expecting the same
// remap as building fresh with DefaultConfig(ModelV5).
func TestReconfigurationRemapsV4DefaultsOnV5Switch(t *testing.T) {
	cfg := DefaultConfig(ModelV4)
	cfg.Model = ModelV5
	remapped := cfg.WithModelDefaults()

	if remapped.FrameSamples != DefaultFrameSamplesV5 {
		t.Errorf("FrameSamples = %d, want %d", remapped.FrameSamples, DefaultFrameSamplesV5)
	}
	if remapped.RedemptionFrames != DefaultRedemptionFramesV5 {
		t.Errorf("RedemptionFrames = %d, want %d", remapped.RedemptionFrames, DefaultRedemptionFramesV5)
	}
}

func TestWithModelDefaultsLeavesV4Unchanged(t *testing.T) {
	cfg := DefaultConfig(ModelV4)
	unchanged := cfg.WithModelDefaults()
	if !unchanged.Equal(cfg) {
		t.Errorf("WithModelDefaults on a v4 config changed it: %+v != %+v", unchanged, cfg)
	}
}

func TestWithModelDefaultsPreservesCallerOverrides(t *testing.T) {
	cfg := DefaultConfig(ModelV4)
	cfg.Model = ModelV5
	// Caller already moved RedemptionFrames away from its v4 default before
	// switching models: that explicit choice must survive the remap.
	cfg.RedemptionFrames = 16
	remapped := cfg.WithModelDefaults()

	if remapped.RedemptionFrames != 16 {
		t.Errorf("RedemptionFrames = %d, want 16 (caller override preserved)", remapped.RedemptionFrames)
	}
	// Fields still at their v4 default remap as usual.
	if remapped.FrameSamples != DefaultFrameSamplesV5 {
		t.Errorf("FrameSamples = %d, want %d", remapped.FrameSamples, DefaultFrameSamplesV5)
	}
}

func TestConfigValidateAccepts(t *testing.T) {
	if err := DefaultConfig(ModelV4).Validate(); err != nil {
		t.Errorf("DefaultConfig(ModelV4).Validate() = %v, want nil", err)
	}
	if err := DefaultConfig(ModelV5).Validate(); err != nil {
		t.Errorf("DefaultConfig(ModelV5).Validate() = %v, want nil", err)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	base := DefaultConfig(ModelV4)

	cases := []struct {
		name   string
		modify func(Config) Config
	}{
		{"wrong sample rate", func(c Config) Config { c.SampleRate = 8000; return c }},
		{"zero frame samples", func(c Config) Config { c.FrameSamples = 0; return c }},
		{"negative frame samples", func(c Config) Config { c.FrameSamples = -1; return c }},
		{"positive threshold at zero", func(c Config) Config { c.PositiveSpeechThreshold = 0; return c }},
		{"positive threshold at one", func(c Config) Config { c.PositiveSpeechThreshold = 1; return c }},
		{"negative threshold at zero", func(c Config) Config { c.NegativeSpeechThreshold = 0; return c }},
		{"negative threshold at one", func(c Config) Config { c.NegativeSpeechThreshold = 1; return c }},
		{"negative equal to positive", func(c Config) Config {
			c.NegativeSpeechThreshold = c.PositiveSpeechThreshold
			return c
		}},
		{"negative greater than positive", func(c Config) Config {
			c.NegativeSpeechThreshold = c.PositiveSpeechThreshold + 0.1
			return c
		}},
		{"zero redemption frames", func(c Config) Config { c.RedemptionFrames = 0; return c }},
		{"negative pre-speech pad frames", func(c Config) Config { c.PreSpeechPadFrames = -1; return c }},
		{"zero min speech frames", func(c Config) Config { c.MinSpeechFrames = 0; return c }},
		{"negative end speech pad frames", func(c Config) Config { c.EndSpeechPadFrames = -1; return c }},
		{"negative num frames to emit", func(c Config) Config { c.NumFramesToEmit = -1; return c }},
		{"unknown model", func(c Config) Config { c.Model = "v3"; return c }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.modify(base).Validate()
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			var vadErr *Error
			if !errors.As(err, &vadErr) {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if vadErr.Kind != ErrorKindConfigInvalid {
				t.Errorf("Kind = %v, want %v", vadErr.Kind, ErrorKindConfigInvalid)
			}
		})
	}
}

func TestConfigEqual(t *testing.T) {
	a := DefaultConfig(ModelV4)
	b := DefaultConfig(ModelV4)
	if !a.Equal(b) {
		t.Error("two default v4 configs should be Equal")
	}
	b.FrameSamples++
	if a.Equal(b) {
		t.Error("configs differing in FrameSamples should not be Equal")
	}
}
