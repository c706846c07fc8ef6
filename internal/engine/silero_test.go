//go:build silero

package engine

import (
	"runtime"
	"testing"
)

func TestOrtLibFilename(t *testing.T) {
	name := ortLibFilename()
	switch runtime.GOOS {
	case "darwin":
		if name != "libonnxruntime.dylib" {
			t.Fatalf("expected libonnxruntime.dylib, got %s", name)
		}
	case "windows":
		if name != "onnxruntime.dll" {
			t.Fatalf("expected onnxruntime.dll, got %s", name)
		}
	default:
		if name != "libonnxruntime.so" {
			t.Fatalf("expected libonnxruntime.so, got %s", name)
		}
	}
}

func TestSileroStateDims(t *testing.T) {
	if v4StateDim != 64 {
		t.Fatalf("v4StateDim = %d, want 64", v4StateDim)
	}
	if v5StateDim != 128 {
		t.Fatalf("v5StateDim = %d, want 128", v5StateDim)
	}
}

func TestModelDataNotEmpty(t *testing.T) {
	if len(sileroModelDataV4) == 0 {
		t.Fatal("sileroModelDataV4 is empty — v4 model not embedded")
	}
	if len(sileroModelDataV5) == 0 {
		t.Fatal("sileroModelDataV5 is empty — v5 model not embedded")
	}
}

func TestNativeAvailable(t *testing.T) {
	if !NativeAvailable() {
		t.Fatal("NativeAvailable() should return true when built with silero tag")
	}
}

func TestClearFloat32Slice(t *testing.T) {
	s := []float32{1.0, 2.0, 3.0, 4.0, 5.0}
	clearFloat32Slice(s)
	for i, v := range s {
		if v != 0 {
			t.Fatalf("s[%d] = %v, want 0", i, v)
		}
	}
}

func TestClearFloat32Slice_Empty(t *testing.T) {
	clearFloat32Slice(nil)
	clearFloat32Slice([]float32{})
}

func TestNewSileroEngine_UnknownVersion(t *testing.T) {
	_, err := NewSileroEngine(ModelVersion("v99"), 512)
	if err == nil {
		t.Fatal("expected error for unknown model version")
	}
}
