//go:build silero

package engine

import (
	_ "embed"
)

// sileroModelDataV4 and sileroModelDataV5 hold the two Silero VAD ONNX
// graphs embedded at build time.
//
// BUILD REQUIREMENT: both silero_vad_v4.onnx and silero_vad_v5.onnx must
// exist under internal/engine/ before compiling with -tags silero; this
// repository does not include them.
//
// If you see "pattern silero_vad_v4.onnx: no matching files found" during
// build, the model files are missing — place them in internal/engine/ first.
//
//go:embed silero_vad_v4.onnx
var sileroModelDataV4 []byte

//go:embed silero_vad_v5.onnx
var sileroModelDataV5 []byte
