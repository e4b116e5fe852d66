// Package asr invokes a pretrained speech-to-text model hosted behind an
// inference server. The model itself is an opaque external capability:
// canonical audio in, text out.
package asr

import (
	"context"
)

// Metadata describes a completed transcription.
type Metadata struct {
	Language   string  `json:"language"`
	Model      string  `json:"model"`
	Duration   float64 `json:"duration"`
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
}

// Result is the raw model output for one audio file.
type Result struct {
	// Text is the decoded transcription with special/control tokens stripped.
	Text string
	// Language is the language the model reports, when it reports one.
	Language string
	// Duration is the audio duration in seconds as reported by the model
	// server; zero when the server does not report it.
	Duration float64
}

// Engine runs model inference over a canonical (mono, 16 kHz WAV) audio file.
type Engine interface {
	// Transcribe feeds the audio at wavPath to the model and returns the
	// decoded text. The engine warms the model up on first use; concurrent
	// first callers never trigger duplicate loads.
	Transcribe(ctx context.Context, wavPath, language string) (*Result, error)
	// Model returns the identifier of the loaded model.
	Model() string
}
