package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"journalapi/internal/config"
)

// specialTokens matches Whisper-style control tokens such as
// <|startoftranscript|> or <|en|> that some servers leave in the output.
var specialTokens = regexp.MustCompile(`<\|[^|]*\|>`)

// WhisperEngine talks to an OpenAI-compatible speech-to-text server
// (POST {base}/v1/audio/transcriptions). The remote model is loaded lazily:
// the first Transcribe call performs a warm-up health check under a mutex so
// concurrent first requests share a single load. Only a successful warm-up
// latches; failures are retried on the next call.
type WhisperEngine struct {
	cfg config.ASRConfig
	hc  *http.Client
	log *zap.SugaredLogger

	mu     sync.Mutex
	loaded bool
}

var _ Engine = (*WhisperEngine)(nil)

// NewWhisperEngine constructs the engine without touching the network; the
// expensive model warm-up is deferred to first use.
func NewWhisperEngine(cfg config.ASRConfig, log *zap.SugaredLogger) *WhisperEngine {
	return &WhisperEngine{
		cfg: cfg,
		hc:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		log: log,
	}
}

// Model returns the configured model identifier.
func (e *WhisperEngine) Model() string {
	return e.cfg.Model
}

// healthResponse is what model servers typically report on /health. Device
// and compute type are informational: the server picks reduced precision on
// accelerated hardware at load time.
type healthResponse struct {
	Status      string `json:"status"`
	Device      string `json:"device"`
	ComputeType string `json:"compute_type"`
}

// ensureLoaded warms the remote model up before first inference. A model
// server that is still starting must not disable transcription for the
// process lifetime, so a failed warm-up leaves the engine unlatched and the
// next call tries again.
func (e *WhisperEngine) ensureLoaded(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded {
		return nil
	}
	if err := e.load(ctx); err != nil {
		e.log.Errorw("speech model load failed", "model", e.cfg.Model, "error", err)
		return err
	}
	e.loaded = true
	return nil
}

// load performs the warm-up health check against the model server.
func (e *WhisperEngine) load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	e.authorize(req)

	resp, err := e.hc.Do(req)
	if err != nil {
		return fmt.Errorf("model server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("model server health %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err == nil && health.Device != "" {
		e.log.Infow("speech model ready",
			"model", e.cfg.Model,
			"device", health.Device,
			"compute_type", health.ComputeType,
		)
	} else {
		e.log.Infow("speech model ready", "model", e.cfg.Model)
	}
	return nil
}

type transcriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Transcribe uploads the canonical WAV and returns the decoded text.
func (e *WhisperEngine) Transcribe(ctx context.Context, wavPath, language string) (*Result, error) {
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, fmt.Errorf("model load: %w", err)
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", e.cfg.Model); err != nil {
		return nil, err
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return nil, err
		}
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, err
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	e.authorize(req)

	resp, err := e.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model inference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model inference %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	return &Result{
		Text:     stripSpecialTokens(tr.Text),
		Language: tr.Language,
		Duration: tr.Duration,
	}, nil
}

func (e *WhisperEngine) authorize(req *http.Request) {
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}
}

func stripSpecialTokens(s string) string {
	return strings.TrimSpace(specialTokens.ReplaceAllString(s, ""))
}
