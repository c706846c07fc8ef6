// Command vadreplay replays a headerless PCM16LE audio file through the VAD
// engine and prints the resulting speech/silence events, demonstrating the
// Handler lifecycle without any platform microphone backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/silerovad/vad-stream/internal/config"
	"github.com/silerovad/vad-stream/internal/engine"
	"github.com/silerovad/vad-stream/internal/replay"
	"github.com/silerovad/vad-stream/internal/vad"
)

// version can be set at build time via -ldflags.
var version = "dev"

func main() {
	filePath := flag.String("file", "", "path to a headerless PCM16LE, mono, 16kHz audio file")
	realtime := flag.Bool("realtime", true, "pace chunks at real-time speed instead of as fast as possible")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: vadreplay -file <path.pcm>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Loader{}.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting vadreplay",
		"version", version,
		"engine", cfg.Engine,
		"model", cfg.Model,
		"file", *filePath,
	)

	newModel, resolvedEngine, err := resolveEngine(cfg, logger)
	if err != nil {
		logger.Error("engine resolution failed", "error", err)
		os.Exit(1)
	}
	logger.Info("engine ready", "type", resolvedEngine)

	handler := vad.NewHandler(logger, newModel)
	defer handler.Dispose()

	vadCfg := cfg.VADConfig()
	frameBytes := vadCfg.FrameSamples * 2
	frameDuration := time.Duration(float64(vadCfg.FrameSamples) * float64(time.Second) / float64(vadCfg.SampleRate))

	source, err := replay.NewFileSource(*filePath, frameBytes, frameDuration, *realtime)
	if err != nil {
		logger.Error("failed to open replay file", "error", err)
		os.Exit(1)
	}
	// Handler never takes ownership of a source passed via StartListening
	// (it only closes sources it creates itself for a microphone backend,
	// which this repo does not implement), so closing it is our job.
	defer source.Close()

	if err := handler.StartListening(vadCfg, source); err != nil {
		logger.Error("failed to start listening", "error", err)
		os.Exit(1)
	}

	// Bound the demo's runtime to the file's own playback length (plus
	// slack for the final utterance's redemption/padding frames) so the
	// process exits on its own instead of hanging once the file drains.
	ctx, cancel := context.WithTimeout(ctx, replayBudget(*filePath, frameBytes, frameDuration, *realtime))
	defer cancel()

	printEvents(ctx, handler)
	handler.StopListening()
	logger.Info("vadreplay stopped")
}

// replayBudget estimates how long the file takes to fully drain through the
// handler: its own playback time (zero, when not paced at real-time speed)
// plus a fixed allowance for the final utterance's trailing frames.
func replayBudget(path string, frameBytes int, frameDuration time.Duration, realtime bool) time.Duration {
	const drainAllowance = 5 * time.Second
	if !realtime {
		return drainAllowance
	}
	info, err := os.Stat(path)
	if err != nil || frameBytes <= 0 {
		return drainAllowance
	}
	frames := info.Size() / int64(frameBytes)
	return time.Duration(frames)*frameDuration + drainAllowance
}

func resolveEngine(cfg config.Config, logger *slog.Logger) (vad.NewModelFunc, string, error) {
	resolved := cfg.Engine
	if resolved == "auto" {
		if engine.NativeAvailable() {
			resolved = "silero"
		} else {
			resolved = "stub"
			logger.Warn("auto-detected engine: stub (native silero not compiled in, build with -tags silero for production)")
		}
	}

	switch resolved {
	case "silero":
		if !engine.NativeAvailable() {
			return nil, "", fmt.Errorf("engine \"silero\" requested but native backend not compiled in (build with -tags silero)")
		}
		return func(c vad.Config) (vad.ModelRunner, error) {
			return engine.NewNativeEngine(engine.ModelVersion(c.Model), c.FrameSamples)
		}, resolved, nil
	case "stub":
		logger.Warn("using stub engine — VAD results are deterministic and NOT based on audio content")
		return func(vad.Config) (vad.ModelRunner, error) {
			return engine.NewStubModel(), nil
		}, resolved, nil
	default:
		return nil, "", fmt.Errorf("unknown engine %q", cfg.Engine)
	}
}

func printEvents(ctx context.Context, h *vad.Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-h.SpeechStart():
			if !ok {
				return
			}
			fmt.Printf("speechStart  utterance=%s\n", ev.UtteranceID)
		case ev, ok := <-h.RealSpeechStart():
			if !ok {
				return
			}
			fmt.Printf("realSpeechStart utterance=%s\n", ev.UtteranceID)
		case ev, ok := <-h.SpeechEnd():
			if !ok {
				return
			}
			fmt.Printf("speechEnd    utterance=%s samples=%d\n", ev.UtteranceID, len(ev.Samples))
		case ev, ok := <-h.Misfire():
			if !ok {
				return
			}
			fmt.Printf("misfire      utterance=%s\n", ev.UtteranceID)
		case ev, ok := <-h.Chunk():
			if !ok {
				return
			}
			fmt.Printf("chunk        utterance=%s bytes=%d final=%v\n", ev.UtteranceID, len(ev.ChunkBytes), ev.IsFinal)
		case ev, ok := <-h.Error():
			if !ok {
				return
			}
			fmt.Printf("error        kind=%s msg=%s\n", ev.ErrKind, ev.ErrMessage)
		case _, ok := <-h.FrameProcessed():
			if !ok {
				return
			}
			// Per-frame probabilities are high-volume; suppressed from the
			// demo's stdout output but available to programmatic consumers.
		}
	}
}

func newLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
