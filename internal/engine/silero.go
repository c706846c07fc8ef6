//go:build silero

package engine

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Per-layer hidden-state width for each model version. v4 carries separate
// LSTM hidden/cell tensors; v5 carries one unified GRU state tensor.
const (
	v4StateDim = 64
	v5StateDim = 128

	sileroSampleRate = 16000
)

// ortInitOnce ensures the ONNX Runtime environment is initialized exactly
// once process-wide. ortInitErr is stored at package scope so subsequent
// NewSileroEngine calls surface the failure instead of retrying silently.
var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// SileroEngine runs Silero VAD inference (v4 or v5) via ONNX Runtime,
// carrying recurrent state between Evaluate calls.
type SileroEngine struct {
	version ModelVersion
	session *ort.AdvancedSession

	inputTensor  *ort.Tensor[float32]
	srTensor     *ort.Tensor[int64]
	outputTensor *ort.Tensor[float32]

	// v5 only: unified state.
	stateTensor  *ort.Tensor[float32]
	stateNTensor *ort.Tensor[float32]

	// v4 only: separate LSTM hidden/cell state.
	hTensor  *ort.Tensor[float32]
	cTensor  *ort.Tensor[float32]
	hnTensor *ort.Tensor[float32]
	cnTensor *ort.Tensor[float32]
}

// NewSileroEngine initializes ONNX Runtime, loads the embedded model for
// version, and allocates input/state/output tensors sized for
// frameSamples-sample windows.
func NewSileroEngine(version ModelVersion, frameSamples int) (*SileroEngine, error) {
	var modelData []byte
	switch version {
	case ModelV4:
		modelData = sileroModelDataV4
	case ModelV5:
		modelData = sileroModelDataV5
	default:
		return nil, fmt.Errorf("silero: unknown model version %q", version)
	}
	if len(modelData) == 0 {
		return nil, fmt.Errorf("silero: model data for %q is empty (embedded model file is empty?)", version)
	}

	ortInitOnce.Do(func() {
		libPath, err := resolveORTLibPath()
		if err != nil {
			ortInitErr = fmt.Errorf("resolve ORT lib: %w", err)
			return
		}
		ort.SetSharedLibraryPath(libPath)
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("silero: %w", ortInitErr)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(frameSamples)))
	if err != nil {
		return nil, fmt.Errorf("silero: create input tensor: %w", err)
	}
	srTensor, err := ort.NewTensor(ort.NewShape(1), []int64{sileroSampleRate})
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("silero: create sr tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		inputTensor.Destroy()
		srTensor.Destroy()
		return nil, fmt.Errorf("silero: create output tensor: %w", err)
	}

	e := &SileroEngine{
		version:      version,
		inputTensor:  inputTensor,
		srTensor:     srTensor,
		outputTensor: outputTensor,
	}

	var inputNames, outputNames []string
	var inputValues, outputValues []ort.Value

	switch version {
	case ModelV5:
		stateTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, v5StateDim))
		if err != nil {
			e.destroyTensors()
			return nil, fmt.Errorf("silero: create state tensor: %w", err)
		}
		e.stateTensor = stateTensor
		stateNTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, v5StateDim))
		if err != nil {
			e.destroyTensors()
			return nil, fmt.Errorf("silero: create stateN tensor: %w", err)
		}
		e.stateNTensor = stateNTensor
		clearFloat32Slice(e.stateTensor.GetData())
		clearFloat32Slice(e.stateNTensor.GetData())

		inputNames = []string{"input", "state", "sr"}
		outputNames = []string{"output", "stateN"}
		inputValues = []ort.Value{inputTensor, stateTensor, srTensor}
		outputValues = []ort.Value{outputTensor, stateNTensor}

	case ModelV4:
		hTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, v4StateDim))
		if err != nil {
			e.destroyTensors()
			return nil, fmt.Errorf("silero: create h tensor: %w", err)
		}
		e.hTensor = hTensor
		cTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, v4StateDim))
		if err != nil {
			e.destroyTensors()
			return nil, fmt.Errorf("silero: create c tensor: %w", err)
		}
		e.cTensor = cTensor
		hnTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, v4StateDim))
		if err != nil {
			e.destroyTensors()
			return nil, fmt.Errorf("silero: create hn tensor: %w", err)
		}
		e.hnTensor = hnTensor
		cnTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, v4StateDim))
		if err != nil {
			e.destroyTensors()
			return nil, fmt.Errorf("silero: create cn tensor: %w", err)
		}
		e.cnTensor = cnTensor
		clearFloat32Slice(e.hTensor.GetData())
		clearFloat32Slice(e.cTensor.GetData())
		clearFloat32Slice(e.hnTensor.GetData())
		clearFloat32Slice(e.cnTensor.GetData())

		inputNames = []string{"input", "h", "c", "sr"}
		outputNames = []string{"output", "hn", "cn"}
		inputValues = []ort.Value{inputTensor, hTensor, cTensor, srTensor}
		outputValues = []ort.Value{outputTensor, hnTensor, cnTensor}
	}

	session, err := ort.NewAdvancedSessionWithONNXData(
		modelData,
		inputNames,
		outputNames,
		inputValues,
		outputValues,
		nil, // default session options
	)
	if err != nil {
		e.destroyTensors()
		return nil, fmt.Errorf("silero: create session: %w", err)
	}
	e.session = session
	return e, nil
}

// Evaluate runs inference on exactly one frame, advancing recurrent state.
func (e *SileroEngine) Evaluate(frame []float32) (float64, error) {
	copy(e.inputTensor.GetData(), frame)

	if err := e.session.Run(); err != nil {
		return 0, fmt.Errorf("silero: inference: %w", err)
	}
	prob := e.outputTensor.GetData()[0]

	switch e.version {
	case ModelV5:
		copy(e.stateTensor.GetData(), e.stateNTensor.GetData())
	case ModelV4:
		copy(e.hTensor.GetData(), e.hnTensor.GetData())
		copy(e.cTensor.GetData(), e.cnTensor.GetData())
	}

	return float64(prob), nil
}

// Reset zeroes recurrent state.
func (e *SileroEngine) Reset() error {
	switch e.version {
	case ModelV5:
		clearFloat32Slice(e.stateTensor.GetData())
	case ModelV4:
		clearFloat32Slice(e.hTensor.GetData())
		clearFloat32Slice(e.cTensor.GetData())
	}
	return nil
}

// Close releases ONNX Runtime resources. Safe to call more than once.
func (e *SileroEngine) Close() error {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	e.destroyTensors()
	return nil
}

// destroyTensors releases whichever tensors have been allocated so far,
// tolerating partial construction (used both by Close and by the
// constructor's error paths).
func (e *SileroEngine) destroyTensors() {
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
		e.inputTensor = nil
	}
	if e.srTensor != nil {
		e.srTensor.Destroy()
		e.srTensor = nil
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
		e.outputTensor = nil
	}
	if e.stateTensor != nil {
		e.stateTensor.Destroy()
		e.stateTensor = nil
	}
	if e.stateNTensor != nil {
		e.stateNTensor.Destroy()
		e.stateNTensor = nil
	}
	if e.hTensor != nil {
		e.hTensor.Destroy()
		e.hTensor = nil
	}
	if e.cTensor != nil {
		e.cTensor.Destroy()
		e.cTensor = nil
	}
	if e.hnTensor != nil {
		e.hnTensor.Destroy()
		e.hnTensor = nil
	}
	if e.cnTensor != nil {
		e.cnTensor.Destroy()
		e.cnTensor = nil
	}
}
