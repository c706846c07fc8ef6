// Package replay provides a demo-only vad.AudioSource that paces a raw
// PCM16LE file as if it were a live microphone stream, for the vadreplay
// command.
package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// FileSource reads a headerless PCM16LE, mono, 16kHz file and delivers it in
// frameBytes-sized chunks, paced at real-time speed (one chunk per
// frameDuration) unless realtime is false.
type FileSource struct {
	f       *os.File
	r       *bufio.Reader
	chunks  chan []byte
	errs    chan error
	closeCh chan struct{}
	done    chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewFileSource opens path and starts pacing frameBytes-sized chunks every
// frameDuration. Close must be called to release the file and stop the
// pacing goroutine.
func NewFileSource(path string, frameBytes int, frameDuration time.Duration, realtime bool) (*FileSource, error) {
	if frameBytes <= 0 {
		return nil, fmt.Errorf("replay: frameBytes must be positive, got %d", frameBytes)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	s := &FileSource{
		f:       f,
		r:       bufio.NewReader(f),
		chunks:  make(chan []byte, 4),
		errs:    make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run(frameBytes, frameDuration, realtime)
	return s, nil
}

func (s *FileSource) run(frameBytes int, frameDuration time.Duration, realtime bool) {
	defer close(s.done)
	defer close(s.chunks)

	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(frameDuration)
		defer ticker.Stop()
	}

	buf := make([]byte, frameBytes)
	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		n, err := io.ReadFull(s.r, buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.closeCh:
				return
			}
		}
		if err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				select {
				case s.errs <- fmt.Errorf("replay: read: %w", err):
				case <-s.closeCh:
				}
			}
			return
		}

		if ticker != nil {
			select {
			case <-ticker.C:
			case <-s.closeCh:
				return
			}
		}
	}
}

func (s *FileSource) Chunks() <-chan []byte { return s.chunks }
func (s *FileSource) Errors() <-chan error  { return s.errs }

// Close stops the pacing goroutine and closes the underlying file. Safe to
// call more than once.
func (s *FileSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeCh)
		<-s.done
		s.closeErr = s.f.Close()
	})
	return s.closeErr
}
