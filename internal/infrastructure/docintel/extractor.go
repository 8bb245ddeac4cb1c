// Package docintel calls the document-intelligence service that suggests
// matter fields from stored documents.
package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// Extractor implements the pre-fill extraction port over HTTP.
type Extractor struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     logging.Logger
}

// NewExtractor builds the client.  The HTTP timeout bounds every extraction
// call.
func NewExtractor(cfg *config.DocIntelConfig, logger logging.Logger) *Extractor {
	return &Extractor{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("docintel"),
	}
}

type extractRequest struct {
	ObjectKey string `json:"objectKey"`
}

type extractResponse struct {
	Fields map[string]string `json:"fields"`
}

// Extract asks the service for suggested fields for one stored document.
func (e *Extractor) Extract(ctx context.Context, objectKey string) (map[string]string, error) {
	body, err := json.Marshal(extractRequest{ObjectKey: objectKey})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to encode extract request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build extract request")
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("X-Api-Key", e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstreamUnavailable, "extraction request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Upstream("extractor returned status " + resp.Status)
	}

	var parsed extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstreamUnavailable, "failed to decode extractor response")
	}
	return parsed.Fields, nil
}
