package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrDecode is returned when the source audio cannot be read or transcoded.
var ErrDecode = errors.New("audio decode failed")

// Info describes a decoded audio artifact.
type Info struct {
	DurationSec float64
	SampleRate  int
	Channels    int
}

// Converter normalizes arbitrary audio containers into the canonical model
// input: single channel, 16 kHz WAV.
type Converter interface {
	// Convert transcodes src into a temporary canonical WAV and returns its
	// path plus a cleanup func. cleanup must be called on every exit path.
	Convert(ctx context.Context, src string) (wavPath string, cleanup func(), err error)
	// Probe reports duration, sample rate and channel count of an audio file.
	Probe(ctx context.Context, path string) (Info, error)
}

// FFmpeg shells out to ffmpeg/ffprobe for transcoding and probing.
type FFmpeg struct {
	ffmpegBin  string
	ffprobeBin string
	tmpDir     string
	log        *zap.SugaredLogger
}

var _ Converter = (*FFmpeg)(nil)

// NewFFmpeg returns a converter using the ffmpeg/ffprobe binaries on PATH
// (overridable via FFMPEG_BIN / FFPROBE_BIN) and the system temp directory
// for intermediate files.
func NewFFmpeg(log *zap.SugaredLogger) *FFmpeg {
	ffmpegBin := os.Getenv("FFMPEG_BIN")
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	ffprobeBin := os.Getenv("FFPROBE_BIN")
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return &FFmpeg{
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
		tmpDir:     os.TempDir(),
		log:        log,
	}
}

// Convert transcodes src to mono 16 kHz WAV in the temp directory.
// ffmpeg -y -i src -ac 1 -ar 16000 -f wav out
func (f *FFmpeg) Convert(ctx context.Context, src string) (string, func(), error) {
	out := filepath.Join(f.tmpDir, uuid.New().String()+"_16k.wav")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.ffmpegBin,
		"-y", "-i", src,
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		out,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(out)
		f.log.Errorw("audio transcode failed", "src", src, "error", err, "stderr", tail(stderr.String()))
		return "", nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	cleanup := func() { os.Remove(out) }
	return out, cleanup, nil
}

// Probe reads stream and format information via ffprobe's JSON output.
func (f *FFmpeg) Probe(ctx context.Context, path string) (Info, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.ffprobeBin,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate,channels:format=duration",
		"-of", "json",
		path,
	)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		f.log.Errorw("audio probe failed", "path", path, "error", err, "stderr", tail(stderr.String()))
		return Info{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return parseProbeOutput(out)
}

type probeOutput struct {
	Streams []struct {
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeOutput(raw []byte) (Info, error) {
	var parsed probeOutput
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Info{}, fmt.Errorf("%w: parse ffprobe output: %v", ErrDecode, err)
	}
	if len(parsed.Streams) == 0 {
		return Info{}, fmt.Errorf("%w: no audio stream", ErrDecode)
	}

	info := Info{Channels: parsed.Streams[0].Channels}
	if sr, err := strconv.Atoi(parsed.Streams[0].SampleRate); err == nil {
		info.SampleRate = sr
	}
	if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
		info.DurationSec = d
	}
	return info, nil
}

// tail keeps error logs readable when ffmpeg dumps its full banner.
func tail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
