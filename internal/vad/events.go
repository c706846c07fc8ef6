package vad

import (
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// EventKind identifies which of the seven lifecycle signals an Event carries.
type EventKind int

const (
	EventSpeechStart EventKind = iota
	EventRealSpeechStart
	EventSpeechEnd
	EventFrameProcessed
	EventMisfire
	EventChunk
	EventErr
)

func (k EventKind) String() string {
	switch k {
	case EventSpeechStart:
		return "speechStart"
	case EventRealSpeechStart:
		return "realSpeechStart"
	case EventSpeechEnd:
		return "speechEnd"
	case EventFrameProcessed:
		return "frameProcessed"
	case EventMisfire:
		return "misfire"
	case EventChunk:
		return "chunk"
	case EventErr:
		return "error"
	default:
		return "unknown"
	}
}

// Event is the single type carried on every output channel. Only the fields
// relevant to Kind are populated; the rest are left at their zero value.
type Event struct {
	Kind EventKind

	// UtteranceID correlates every event belonging to one utterance
	// (speechStart through speechEnd/misfire). Zero for frameProcessed
	// events observed while Idle, and for error events.
	UtteranceID uuid.UUID

	// Timestamp is audio time: streamStart + frameCount*frameDuration, set
	// by the Handler before delivery (the iterator itself is clockless).
	Timestamp *timestamppb.Timestamp

	// EventSpeechEnd
	Samples []float32

	// EventFrameProcessed
	IsSpeech  float64
	NotSpeech float64
	Frame     []float32

	// EventChunk
	ChunkBytes []byte
	IsFinal    bool

	// EventErr
	ErrKind    ErrorKind
	ErrMessage string
}

func newFrameProcessedEvent(prob float64, frame []float32) Event {
	return Event{Kind: EventFrameProcessed, IsSpeech: prob, NotSpeech: 1 - prob, Frame: frame}
}

func newSpeechStartEvent(id uuid.UUID) Event {
	return Event{Kind: EventSpeechStart, UtteranceID: id}
}

func newRealSpeechStartEvent(id uuid.UUID) Event {
	return Event{Kind: EventRealSpeechStart, UtteranceID: id}
}

func newSpeechEndEvent(id uuid.UUID, samples []float32) Event {
	return Event{Kind: EventSpeechEnd, UtteranceID: id, Samples: samples}
}

func newMisfireEvent(id uuid.UUID) Event {
	return Event{Kind: EventMisfire, UtteranceID: id}
}

func newChunkEvent(id uuid.UUID, bytes []byte, isFinal bool) Event {
	return Event{Kind: EventChunk, UtteranceID: id, ChunkBytes: bytes, IsFinal: isFinal}
}

func newErrEvent(kind ErrorKind, message string) Event {
	return Event{Kind: EventErr, ErrKind: kind, ErrMessage: message}
}
