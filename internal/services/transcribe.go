package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/myautosound/autosound-backend/internal/platform/envutil"
	"github.com/myautosound/autosound-backend/internal/platform/gcp"
	"github.com/myautosound/autosound-backend/internal/platform/logger"
	"github.com/myautosound/autosound-backend/internal/platform/openai"
)

// Transcriber converts a recorded noise clip (already spilled to a local
// file) into text. An empty transcript is a valid outcome.
type Transcriber interface {
	Transcribe(ctx context.Context, path string, mimeType string) (string, error)
}

// NewTranscriberFromEnv selects the provider via SPEECH_PROVIDER:
// "openai" (default, Whisper) or "gcp" (Speech-to-Text).
func NewTranscriberFromEnv(log *logger.Logger, oai openai.Client) (Transcriber, error) {
	switch strings.ToLower(envutil.Str("SPEECH_PROVIDER", "openai")) {
	case "gcp", "gcp_speech":
		sp, err := gcp.NewSpeech(log)
		if err != nil {
			return nil, err
		}
		return &gcpTranscriber{speech: sp}, nil
	default:
		if oai == nil {
			return nil, fmt.Errorf("openai client required for whisper transcription")
		}
		return &openaiTranscriber{client: oai}, nil
	}
}

type openaiTranscriber struct {
	client openai.Client
}

func (t *openaiTranscriber) Transcribe(ctx context.Context, path string, _ string) (string, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	return t.client.Transcribe(ctx, filepath.Base(path), audio)
}

type gcpTranscriber struct {
	speech gcp.Speech
}

func (t *gcpTranscriber) Transcribe(ctx context.Context, path string, mimeType string) (string, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	return t.speech.TranscribeAudioBytes(ctx, audio, mimeType)
}
