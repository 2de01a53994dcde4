package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/myautosound/autosound-backend/internal/platform/sendgrid"
)

type fakeMailer struct {
	got  sendgrid.SendEmailRequest
	err  error
	sent int
}

func (f *fakeMailer) Send(_ context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	f.got = req
	f.sent++
	if f.err != nil {
		return nil, f.err
	}
	return &sendgrid.SendEmailResult{StatusCode: 202, MessageID: "msg-1"}, nil
}

func strptr(s string) *string { return &s }

func TestNormalizeFeedbackUseful(t *testing.T) {
	cases := []struct {
		in   *string
		want *string
	}{
		{strptr("yes"), strptr("yes")},
		{strptr(" YES "), strptr("yes")},
		{strptr("no"), strptr("no")},
		{strptr("maybe"), nil},
		{nil, nil},
	}
	for _, tc := range cases {
		got := NormalizeFeedback(FeedbackInput{Useful: tc.in}).Useful
		switch {
		case tc.want == nil && got != nil:
			t.Fatalf("useful %v: got %q, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Fatalf("useful %q: got %v, want %q", *tc.in, got, *tc.want)
		}
	}
}

func TestNormalizeFeedbackCategory(t *testing.T) {
	if got := NormalizeFeedback(FeedbackInput{Category: strptr(" Diagnosis ")}).Category; got == nil || *got != "diagnosis" {
		t.Fatalf("category: %v", got)
	}
	if got := NormalizeFeedback(FeedbackInput{Category: strptr("unknown")}).Category; got != nil {
		t.Fatalf("unknown category should map to nil, got %q", *got)
	}
}

func TestNormalizeFeedbackMessage(t *testing.T) {
	fb := NormalizeFeedback(FeedbackInput{Message: "<script>alert(1)</script>great &amp; useful"})
	if strings.Contains(fb.Message, "<") || strings.Contains(fb.Message, "script") {
		t.Fatalf("markup survived: %q", fb.Message)
	}
	if !strings.Contains(fb.Message, "great & useful") {
		t.Fatalf("entities not decoded: %q", fb.Message)
	}

	long := strings.Repeat("a", maxMessageRunes+500)
	if got := NormalizeFeedback(FeedbackInput{Message: long}).Message; len([]rune(got)) != maxMessageRunes {
		t.Fatalf("message not capped: %d runes", len([]rune(got)))
	}
}

func TestNormalizeFeedbackEmail(t *testing.T) {
	if got := NormalizeFeedback(FeedbackInput{Email: "user@example.com"}).Email; got != "user@example.com" {
		t.Fatalf("email: %q", got)
	}
	for _, bad := range []string{"not-an-email", "a@b", "a b@c.com", "@x.com"} {
		if got := NormalizeFeedback(FeedbackInput{Email: bad}).Email; got != "" {
			t.Fatalf("bad email %q kept as %q", bad, got)
		}
	}
}

func TestNormalizeFeedbackConsent(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"on", true},
		{"nope", false},
		{float64(1), true},
		{float64(0), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := NormalizeFeedback(FeedbackInput{Consent: tc.in}).Consent; got != tc.want {
			t.Fatalf("consent %v: got %t", tc.in, got)
		}
	}
}

func TestSubmitSendsMail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewFeedbackService(testLogger(t), mailer, "team@myautosound.app")

	err := svc.Submit(context.Background(), FeedbackInput{
		Useful:   strptr("yes"),
		Category: strptr("diagnosis"),
		Message:  "Spot on.",
		Email:    "driver@example.com",
		Consent:  true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if mailer.sent != 1 {
		t.Fatalf("sent=%d", mailer.sent)
	}
	if len(mailer.got.To) != 1 || mailer.got.To[0].Email != "team@myautosound.app" {
		t.Fatalf("recipient: %+v", mailer.got.To)
	}
	if mailer.got.ReplyTo == nil || mailer.got.ReplyTo.Email != "driver@example.com" {
		t.Fatalf("reply-to not set: %+v", mailer.got.ReplyTo)
	}
	if !strings.Contains(mailer.got.Text, "Spot on.") {
		t.Fatalf("body missing message: %q", mailer.got.Text)
	}
}

func TestSubmitNoReplyToWithoutConsent(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewFeedbackService(testLogger(t), mailer, "team@myautosound.app")

	if err := svc.Submit(context.Background(), FeedbackInput{
		Message: "hi",
		Email:   "driver@example.com",
		Consent: false,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if mailer.got.ReplyTo != nil {
		t.Fatalf("reply-to set without consent: %+v", mailer.got.ReplyTo)
	}
}

func TestSubmitNotConfigured(t *testing.T) {
	svc := NewFeedbackService(testLogger(t), nil, "")
	err := svc.Submit(context.Background(), FeedbackInput{Message: "hi"})
	if !errors.Is(err, ErrMailNotConfigured) {
		t.Fatalf("err=%v", err)
	}
}

func TestSubmitSendFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("sendgrid 503")}
	svc := NewFeedbackService(testLogger(t), mailer, "team@myautosound.app")
	err := svc.Submit(context.Background(), FeedbackInput{Message: "hi"})
	if err == nil || errors.Is(err, ErrMailNotConfigured) {
		t.Fatalf("err=%v", err)
	}
}
