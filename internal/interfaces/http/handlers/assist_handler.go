package handlers

import (
	"net/http"

	"github.com/spaarke/workspace-engine/internal/application/assist"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger parts spill to temp files.
const maxMultipartMemory = 16 << 20

// AssistHandler serves the AI summary and document pre-fill endpoints.
type AssistHandler struct {
	summaries *assist.SummaryService
	prefill   *assist.PreFillService
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

func NewAssistHandler(summaries *assist.SummaryService, prefill *assist.PreFillService, logger logging.Logger) *AssistHandler {
	return &AssistHandler{
		summaries: summaries,
		prefill:   prefill,
		logger:    logger.Named("assist_handler"),
	}
}

// WithMetrics attaches an assistant outcome recorder and returns the handler.
func (h *AssistHandler) WithMetrics(m *prometheus.Metrics) *AssistHandler {
	h.metrics = m
	return h
}

// Summarize handles POST /workspace/ai/summary.
func (h *AssistHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req assist.SummaryRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.summaries.Summarize(r.Context(), req)
	if h.metrics != nil {
		h.metrics.ObserveAssistant("summary", err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PreFill handles POST /workspace/matters/pre-fill.  Files arrive as
// multipart form parts named "files".
func (h *AssistHandler) PreFill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, errors.NewValidation("request body is not valid multipart form data"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	headers := r.MultipartForm.File["files"]
	uploads := make([]assist.Upload, 0, len(headers))
	opened := make([]interface{ Close() error }, 0, len(headers))
	defer func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, errors.Wrap(err, errors.CodeValidation, "file "+fh.Filename+" could not be read"))
			return
		}
		opened = append(opened, f)
		uploads = append(uploads, assist.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Content:  f,
		})
	}

	result, err := h.prefill.Ingest(r.Context(), identityFromRequest(r), uploads)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
