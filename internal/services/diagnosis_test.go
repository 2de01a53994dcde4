package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/myautosound/autosound-backend/internal/diagnosis"
	"github.com/myautosound/autosound-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type fakeLLM struct {
	reply string
	err   error

	gotSystem string
	gotUser   string
}

func (f *fakeLLM) GenerateText(_ context.Context, system, user string) (string, error) {
	f.gotSystem = system
	f.gotUser = user
	return f.reply, f.err
}

type fakeTranscriber struct {
	text string
	err  error

	gotPath string
	gotMIME string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, path, mimeType string) (string, error) {
	f.gotPath = path
	f.gotMIME = mimeType
	return f.text, f.err
}

const fakeReply = `1. Provide a diagnosis: Worn brake pads
2. Add a personalized message: Get them looked at.
3. Include a GRAVITY level: Medium
4. Include a DANGER level: High
5. Provide a ROUGH COST ESTIMATE: $200
6. End with a next recommended step: Book a brake inspection.`

func TestDiagnoseTextOnly(t *testing.T) {
	llm := &fakeLLM{reply: fakeReply}
	tr := &fakeTranscriber{}
	svc := NewDiagnosisService(testLogger(t), llm, tr, diagnosis.DefaultTable())

	res, err := svc.Diagnose(context.Background(), DiagnoseInput{
		Request: diagnosis.Request{Description: "grinding when braking"},
	})
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if res.Diagnosis != "Worn brake pads" {
		t.Fatalf("diagnosis: %q", res.Diagnosis)
	}
	if res.Transcript != "" {
		t.Fatalf("unexpected transcript: %q", res.Transcript)
	}
	if tr.gotPath != "" {
		t.Fatalf("transcriber called without audio")
	}
	if !strings.Contains(llm.gotUser, "grinding when braking") {
		t.Fatalf("prompt missing description: %s", llm.gotUser)
	}
	if !strings.Contains(llm.gotUser, "No audio was provided") {
		t.Fatalf("prompt missing no-audio marker: %s", llm.gotUser)
	}
	// The reply mentions "brake", so the brake suggestions must come back.
	if len(res.Suggestions) == 0 {
		t.Fatalf("expected suggestions for brake reply")
	}
}

func TestDiagnoseWithAudio(t *testing.T) {
	llm := &fakeLLM{reply: fakeReply}
	tr := &fakeTranscriber{text: "loud metallic grinding"}
	svc := NewDiagnosisService(testLogger(t), llm, tr, diagnosis.DefaultTable())

	res, err := svc.Diagnose(context.Background(), DiagnoseInput{
		Request:       diagnosis.Request{Description: "noise"},
		Audio:         []byte("not real audio"),
		AudioFilename: "clip.webm",
		AudioMIME:     "audio/webm",
	})
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if res.Transcript != "loud metallic grinding" {
		t.Fatalf("transcript: %q", res.Transcript)
	}
	if tr.gotMIME != "audio/webm" {
		t.Fatalf("mime: %q", tr.gotMIME)
	}
	if tr.gotPath == "" {
		t.Fatalf("transcriber never received a file")
	}
	if _, err := os.Stat(tr.gotPath); !os.IsNotExist(err) {
		t.Fatalf("temp audio file not cleaned up: %s", tr.gotPath)
	}
	if !strings.Contains(llm.gotUser, `"loud metallic grinding"`) {
		t.Fatalf("prompt missing transcript: %s", llm.gotUser)
	}
}

func TestDiagnoseTranscriptionFailureIsFatal(t *testing.T) {
	llm := &fakeLLM{reply: fakeReply}
	tr := &fakeTranscriber{err: errors.New("upstream 500")}
	svc := NewDiagnosisService(testLogger(t), llm, tr, diagnosis.DefaultTable())

	_, err := svc.Diagnose(context.Background(), DiagnoseInput{
		Audio:         []byte("x"),
		AudioFilename: "clip.webm",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "transcription:") {
		t.Fatalf("error not wrapped: %v", err)
	}
	if llm.gotUser != "" {
		t.Fatalf("completion called after transcription failure")
	}
}

func TestDiagnoseCompletionFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("rate limited")}
	svc := NewDiagnosisService(testLogger(t), llm, &fakeTranscriber{}, diagnosis.DefaultTable())

	_, err := svc.Diagnose(context.Background(), DiagnoseInput{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "completion:") {
		t.Fatalf("error not wrapped: %v", err)
	}
}
