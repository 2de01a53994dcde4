package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myautosound/autosound-backend/internal/diagnosis"
	"github.com/myautosound/autosound-backend/internal/history"
	"github.com/myautosound/autosound-backend/internal/http/response"
	"github.com/myautosound/autosound-backend/internal/platform/logger"
	"github.com/myautosound/autosound-backend/internal/services"
)

// diagnoseFailedMsg is the only error body /diagnose ever returns;
// upstream details stay in the logs.
const diagnoseFailedMsg = "Failed to process diagnosis."

// maxAudioBytes caps the uploaded clip at 10 MB.
const maxAudioBytes = 10 << 20

type DiagnoseHandler struct {
	log     *logger.Logger
	svc     services.DiagnosisService
	history *history.Store
}

func NewDiagnoseHandler(log *logger.Logger, svc services.DiagnosisService, hist *history.Store) *DiagnoseHandler {
	return &DiagnoseHandler{
		log:     log.With("handler", "DiagnoseHandler"),
		svc:     svc,
		history: hist,
	}
}

// clientReport is the optional "report" form field: a JSON snapshot the
// frontend assembles while recording (sound profile labels etc.).
type clientReport struct {
	SoundProfile struct {
		Labels []string `json:"labels"`
	} `json:"soundProfile"`
}

// Diagnose accepts a multipart noise report and runs the full pipeline.
// Any failure maps to a single generic 500 body.
func (h *DiagnoseHandler) Diagnose(c *gin.Context) {
	in, report, err := h.parseForm(c)
	if err != nil {
		h.log.Warn("diagnose form rejected", "error", err)
		response.RespondError(c, http.StatusInternalServerError, diagnoseFailedMsg)
		return
	}

	result, err := h.svc.Diagnose(c.Request.Context(), in)
	if err != nil {
		h.log.Error("diagnose pipeline failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, diagnoseFailedMsg)
		return
	}

	h.record(c, in, report, result)
	response.RespondOK(c, result)
}

func (h *DiagnoseHandler) parseForm(c *gin.Context) (services.DiagnoseInput, *clientReport, error) {
	in := services.DiagnoseInput{
		Request: diagnosis.Request{
			Description: strings.TrimSpace(c.PostForm("description")),
			Location:    strings.TrimSpace(c.PostForm("location")),
			Situation:   strings.TrimSpace(c.PostForm("situation")),
			MakeModel:   strings.TrimSpace(c.PostForm("makeModel")),
			Notes:       strings.TrimSpace(c.PostForm("notes")),
		},
	}

	var report *clientReport
	if raw := c.PostForm("report"); raw != "" {
		var r clientReport
		// A malformed report only loses the history labels, never the
		// diagnosis itself.
		if err := json.Unmarshal([]byte(raw), &r); err == nil {
			report = &r
		} else {
			h.log.Debug("ignoring malformed report field", "error", err)
		}
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		if err == http.ErrMissingFile {
			return in, report, nil
		}
		return in, report, err
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes+1))
	if err != nil {
		return in, report, err
	}
	if len(audio) > maxAudioBytes {
		return in, report, errAudioTooLarge
	}

	in.Audio = audio
	in.AudioFilename = header.Filename
	in.AudioMIME = header.Header.Get("Content-Type")
	return in, report, nil
}

var errAudioTooLarge = &audioTooLargeError{}

type audioTooLargeError struct{}

func (*audioTooLargeError) Error() string { return "audio clip exceeds the 10MB upload limit" }

func (h *DiagnoseHandler) record(c *gin.Context, in services.DiagnoseInput, report *clientReport, result *diagnosis.Result) {
	if h.history == nil {
		return
	}
	entry := history.Entry{
		Timestamp:   timeNow(),
		Diagnosis:   result.Diagnosis,
		Severity:    result.Severity,
		DangerLevel: result.DangerLevel,
		Summary: history.RequestSummary{
			Description: in.Description,
			Location:    in.Location,
			Situation:   in.Situation,
		},
	}
	if report != nil {
		entry.Summary.SoundLabels = report.SoundProfile.Labels
	}
	h.history.Add(sessionKey(c), entry)
}
