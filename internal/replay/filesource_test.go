package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempPCM(t *testing.T, samples int) string {
	t.Helper()
	data := make([]byte, samples*2)
	for i := range data {
		data[i] = byte(i)
	}
	path := filepath.Join(t.TempDir(), "clip.pcm")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSourceDeliversWholeFile(t *testing.T) {
	path := writeTempPCM(t, 1000)
	src, err := NewFileSource(path, 200, time.Millisecond, false)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	var total int
	for chunk := range src.Chunks() {
		total += len(chunk)
	}
	if total != 2000 {
		t.Fatalf("total bytes = %d, want 2000", total)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.pcm"), 200, time.Millisecond, false)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileSourceInvalidFrameBytes(t *testing.T) {
	path := writeTempPCM(t, 10)
	_, err := NewFileSource(path, 0, time.Millisecond, false)
	if err == nil {
		t.Fatal("expected error for zero frameBytes")
	}
}

func TestFileSourceDoubleClose(t *testing.T) {
	path := writeTempPCM(t, 10)
	src, err := NewFileSource(path, 20, time.Millisecond, false)
	if err != nil {
		t.Fatal(err)
	}
	for range src.Chunks() {
	}
	if err := src.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
