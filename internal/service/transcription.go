package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"journalapi/internal/asr"
	"journalapi/internal/audio"
)

// ErrTranscription wraps any stage failure in the audio → text pipeline
// (conversion, probing, model load, inference). No stage is retried.
var ErrTranscription = errors.New("transcription failed")

// Transcriber runs the full audio-to-text pipeline over a stored artifact:
// normalize to canonical audio, probe, run model inference, clean up.
type Transcriber interface {
	// Transcribe returns the decoded text and descriptive metadata for the
	// audio file at audioPath. Temporary files created during format
	// conversion are removed on every exit path.
	Transcribe(ctx context.Context, audioPath, language string) (string, *asr.Metadata, error)
}

// transcriptionService is a concrete implementation of Transcriber.
type transcriptionService struct {
	engine    asr.Engine
	converter audio.Converter
	log       *zap.SugaredLogger
}

// NewTranscriptionService constructs a new Transcriber.
func NewTranscriptionService(engine asr.Engine, converter audio.Converter, log *zap.SugaredLogger) Transcriber {
	return &transcriptionService{engine: engine, converter: converter, log: log}
}

func (s *transcriptionService) Transcribe(ctx context.Context, audioPath, language string) (string, *asr.Metadata, error) {
	wavPath, cleanup, err := s.converter.Convert(ctx, audioPath)
	if err != nil {
		s.log.Errorw("audio conversion failed", "path", audioPath, "error", err)
		return "", nil, fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	defer cleanup()

	info, err := s.converter.Probe(ctx, wavPath)
	if err != nil {
		s.log.Errorw("audio probe failed", "path", audioPath, "error", err)
		return "", nil, fmt.Errorf("%w: %w", ErrTranscription, err)
	}

	res, err := s.engine.Transcribe(ctx, wavPath, language)
	if err != nil {
		s.log.Errorw("model inference failed", "path", audioPath, "language", language, "error", err)
		return "", nil, fmt.Errorf("%w: %w", ErrTranscription, err)
	}

	md := &asr.Metadata{
		Language:   language,
		Model:      s.engine.Model(),
		Duration:   info.DurationSec,
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
	}
	return res.Text, md, nil
}
