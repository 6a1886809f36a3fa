package transcribe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const (
	// DefaultTranscribeModel is the default speech-to-text model
	DefaultTranscribeModel = "whisper-1"
	// DefaultTimeout is the default timeout for transcription calls. Audio
	// uploads are slower than chat completions.
	DefaultTimeout = 120 * time.Second
)

// OpenAITranscriber implements Transcriber using OpenAI's audio API
type OpenAITranscriber struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

var _ Transcriber = (*OpenAITranscriber)(nil)

// NewOpenAITranscriber creates a new OpenAI-backed transcriber
func NewOpenAITranscriber(apiKey, baseURL, model string, log *zap.Logger) *OpenAITranscriber {
	if model == "" {
		model = DefaultTranscribeModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: DefaultTimeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAITranscriber{
		client: openai.NewClient(opts...),
		model:  model,
		logger: log,
	}
}

// Transcribe sends the audio to the speech-to-text API and returns the text
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	start := time.Now()
	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(t.model),
		File:  openai.File(audio, filename, contentTypeFor(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if t.logger != nil {
		t.logger.Debug("audio_transcribed",
			zap.String("model", t.model),
			zap.Int("text_length", len(text)),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		)
	}

	return text, nil
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(filename, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(filename, ".ogg"):
		return "audio/ogg"
	case strings.HasSuffix(filename, ".webm"):
		return "audio/webm"
	case strings.HasSuffix(filename, ".m4a"):
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
