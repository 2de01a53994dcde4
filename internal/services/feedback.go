package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/myautosound/autosound-backend/internal/platform/logger"
	"github.com/myautosound/autosound-backend/internal/platform/sendgrid"
)

// ErrMailNotConfigured marks an operational configuration error (missing
// SendGrid credentials or recipient), distinct from user input problems.
var ErrMailNotConfigured = errors.New("feedback mail is not configured: set SENDGRID_API_KEY, SENDGRID_FROM_EMAIL and FEEDBACK_TO_EMAIL")

const (
	maxMessageRunes = 2000
	maxContextRunes = 4000
)

// FeedbackInput is the raw JSON body of a feedback submission; every
// field is normalized before use.
type FeedbackInput struct {
	Useful   *string `json:"useful"`
	Category *string `json:"category"`
	Message  string  `json:"message"`
	Email    string  `json:"email"`
	Consent  any     `json:"consent"`
	Context  string  `json:"context"`
}

// Feedback is the sanitized form that gets mailed.
type Feedback struct {
	Useful   *string
	Category *string
	Message  string
	Email    string
	Consent  bool
	Context  string
}

type FeedbackService interface {
	Submit(ctx context.Context, in FeedbackInput) error
}

type feedbackService struct {
	log  *logger.Logger
	mail sendgrid.Client
	to   string
}

// NewFeedbackService accepts a nil mail client; submissions then fail
// with ErrMailNotConfigured instead of failing service construction, so
// the rest of the API stays up.
func NewFeedbackService(log *logger.Logger, mail sendgrid.Client, to string) FeedbackService {
	return &feedbackService{
		log:  log.With("service", "FeedbackService"),
		mail: mail,
		to:   strings.TrimSpace(to),
	}
}

func (s *feedbackService) Submit(ctx context.Context, in FeedbackInput) error {
	fb := NormalizeFeedback(in)

	if s.mail == nil || s.to == "" {
		return ErrMailNotConfigured
	}

	req := sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: s.to}},
		Subject: feedbackSubject(fb),
		Text:    feedbackText(fb),
		HTML:    feedbackHTML(fb),
	}
	if fb.Email != "" && fb.Consent {
		req.ReplyTo = &sendgrid.EmailAddress{Email: fb.Email}
	}

	res, err := s.mail.Send(ctx, req)
	if err != nil {
		return fmt.Errorf("send feedback mail: %w", err)
	}
	s.log.Info("feedback dispatched", "status", res.StatusCode, "message_id", res.MessageID)
	return nil
}

// NormalizeFeedback applies the endpoint's validation rules: useful is
// constrained to yes/no, category to the fixed set, the message is
// stripped of markup and capped, the email dropped unless well-formed,
// and consent coerced to a bool.
func NormalizeFeedback(in FeedbackInput) Feedback {
	return Feedback{
		Useful:   normalizeUseful(in.Useful),
		Category: normalizeCategory(in.Category),
		Message:  capRunes(stripMarkup(in.Message), maxMessageRunes),
		Email:    normalizeEmail(in.Email),
		Consent:  coerceConsent(in.Consent),
		Context:  capRunes(stripMarkup(in.Context), maxContextRunes),
	}
}

func normalizeUseful(v *string) *string {
	if v == nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(*v)) {
	case "yes":
		yes := "yes"
		return &yes
	case "no":
		no := "no"
		return &no
	default:
		return nil
	}
}

var feedbackCategories = []string{"diagnosis", "transcription", "suggestions", "ui", "other"}

func normalizeCategory(v *string) *string {
	if v == nil {
		return nil
	}
	c := strings.ToLower(strings.TrimSpace(*v))
	for _, known := range feedbackCategories {
		if c == known {
			return &known
		}
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func normalizeEmail(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || !emailPattern.MatchString(v) {
		return ""
	}
	return v
}

func coerceConsent(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	case float64:
		return t != 0
	default:
		return false
	}
}

// stripMarkup drops anything tag-shaped and decodes entities, leaving
// plain text for the mail body.
func stripMarkup(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}

func capRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func feedbackSubject(fb Feedback) string {
	category := "general"
	if fb.Category != nil {
		category = *fb.Category
	}
	return fmt.Sprintf("MyAutoSound feedback (%s)", category)
}

func feedbackText(fb Feedback) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Useful: %s\n", strOrDash(fb.Useful))
	fmt.Fprintf(&b, "Category: %s\n", strOrDash(fb.Category))
	fmt.Fprintf(&b, "Consent to follow up: %t\n", fb.Consent)
	if fb.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", fb.Email)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n", fb.Message)
	if fb.Context != "" {
		fmt.Fprintf(&b, "\nContext:\n%s\n", fb.Context)
	}
	return b.String()
}

func feedbackHTML(fb Feedback) string {
	var b strings.Builder
	b.WriteString("<h2>MyAutoSound feedback</h2>")
	fmt.Fprintf(&b, "<p><strong>Useful:</strong> %s</p>", html.EscapeString(strOrDash(fb.Useful)))
	fmt.Fprintf(&b, "<p><strong>Category:</strong> %s</p>", html.EscapeString(strOrDash(fb.Category)))
	fmt.Fprintf(&b, "<p><strong>Consent to follow up:</strong> %t</p>", fb.Consent)
	if fb.Email != "" {
		fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(fb.Email))
	}
	fmt.Fprintf(&b, "<p><strong>Message:</strong></p><p>%s</p>", html.EscapeString(fb.Message))
	if fb.Context != "" {
		fmt.Fprintf(&b, "<p><strong>Context:</strong></p><p>%s</p>", html.EscapeString(fb.Context))
	}
	return b.String()
}

func strOrDash(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}
