// Package transcribe converts voice recordings into text for the command
// pipeline.
package transcribe

import (
	"context"
	"io"
)

// Transcriber converts an audio recording into an utterance string.
// Filename carries the original extension so the backend can detect the
// container format.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}
