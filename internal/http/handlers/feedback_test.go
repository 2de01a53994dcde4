package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/myautosound/autosound-backend/internal/services"
)

type fakeFeedbackService struct {
	got services.FeedbackInput
	err error
}

func (f *fakeFeedbackService) Submit(_ context.Context, in services.FeedbackInput) error {
	f.got = in
	return f.err
}

func feedbackRouter(t *testing.T, svc services.FeedbackService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/feedback", NewFeedbackHandler(testLogger(t), svc).Submit)
	return r
}

func postFeedback(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestFeedbackSubmitOK(t *testing.T) {
	svc := &fakeFeedbackService{}
	rr := postFeedback(t, feedbackRouter(t, svc), `{"useful":"yes","category":"diagnosis","message":"great"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.OK || out.Error != "" {
		t.Fatalf("body: %+v", out)
	}
	if svc.got.Message != "great" {
		t.Fatalf("message not forwarded: %+v", svc.got)
	}
}

func TestFeedbackBadBody(t *testing.T) {
	rr := postFeedback(t, feedbackRouter(t, &fakeFeedbackService{}), `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestFeedbackMailNotConfigured(t *testing.T) {
	svc := &fakeFeedbackService{err: services.ErrMailNotConfigured}
	rr := postFeedback(t, feedbackRouter(t, svc), `{"message":"hi"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	var out struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.OK || !strings.Contains(out.Error, "not configured") {
		t.Fatalf("body: %+v", out)
	}
}

func TestFeedbackSendFailure(t *testing.T) {
	svc := &fakeFeedbackService{err: errors.New("sendgrid 503")}
	rr := postFeedback(t, feedbackRouter(t, svc), `{"message":"hi"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "503") {
		t.Fatalf("upstream detail leaked: %s", rr.Body.String())
	}
}
