package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/myautosound/autosound-backend/internal/diagnosis"
	"github.com/myautosound/autosound-backend/internal/platform/logger"
)

// TextGenerator is the slice of the OpenAI client the diagnosis flow
// needs; narrowed so tests can fake it.
type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

// DiagnoseInput is one noise report: the text fields plus an optional
// audio clip already read into memory by the handler.
type DiagnoseInput struct {
	diagnosis.Request

	Audio         []byte
	AudioFilename string
	AudioMIME     string
}

type DiagnosisService interface {
	Diagnose(ctx context.Context, in DiagnoseInput) (*diagnosis.Result, error)
}

type diagnosisService struct {
	log         *logger.Logger
	llm         TextGenerator
	transcriber Transcriber
	table       diagnosis.Table
}

func NewDiagnosisService(log *logger.Logger, llm TextGenerator, transcriber Transcriber, table diagnosis.Table) DiagnosisService {
	return &diagnosisService{
		log:         log.With("service", "DiagnosisService"),
		llm:         llm,
		transcriber: transcriber,
		table:       table,
	}
}

// Diagnose runs the full pipeline: transcribe the clip if present, build
// the mechanic prompt, call the completion provider, slice the reply into
// the six fields and match tutorial suggestions. Any upstream failure
// fails the whole request; there are no partial results and no retries.
func (s *diagnosisService) Diagnose(ctx context.Context, in DiagnoseInput) (*diagnosis.Result, error) {
	transcript := ""
	if len(in.Audio) > 0 {
		text, err := s.transcribeClip(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("transcription: %w", err)
		}
		transcript = text
		s.log.Debug("audio transcribed", "bytes", len(in.Audio), "transcript_len", len(transcript))
	}

	prompt := diagnosis.BuildPrompt(in.Request, transcript)
	reply, err := s.llm.GenerateText(ctx, diagnosis.SystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}

	result := diagnosis.ExtractResult(reply, transcript)
	result.Suggestions = s.table.Match(reply)
	return &result, nil
}

// transcribeClip spills the clip to a temp file for the provider and
// removes it regardless of outcome.
func (s *diagnosisService) transcribeClip(ctx context.Context, in DiagnoseInput) (string, error) {
	path, err := writeTempAudio(in.Audio, in.AudioFilename)
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			s.log.Warn("temp audio cleanup failed", "path", path, "error", rmErr)
		}
	}()

	return s.transcriber.Transcribe(ctx, path, in.AudioMIME)
}

func writeTempAudio(audio []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".webm"
	}
	f, err := os.CreateTemp("", "noise-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp audio: %w", err)
	}
	if _, err := f.Write(audio); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp audio: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp audio: %w", err)
	}
	return f.Name(), nil
}
