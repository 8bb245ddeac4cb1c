package docintel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

func newTestExtractor(t *testing.T, handler http.HandlerFunc) *Extractor {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewExtractor(&config.DocIntelConfig{
		Endpoint: server.URL,
		APIKey:   "di-key",
		Timeout:  5 * time.Second,
	}, logging.NewNopLogger())
}

func TestExtract_Success(t *testing.T) {
	var gotKey, gotAPIKey string
	ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-Api-Key")
		var req struct {
			ObjectKey string `json:"objectKey"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotKey = req.ObjectKey

		json.NewEncoder(w).Encode(map[string]interface{}{
			"fields": map[string]string{"matterName": "Acme acquisition"},
		})
	})

	fields, err := ex.Extract(context.Background(), "prefill/user-1/doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, "prefill/user-1/doc.pdf", gotKey)
	assert.Equal(t, "di-key", gotAPIKey)
	assert.Equal(t, "Acme acquisition", fields["matterName"])
}

func TestExtract_UpstreamError(t *testing.T) {
	ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := ex.Extract(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, errors.IsUpstreamUnavailable(err))
}

func TestExtract_MalformedResponse(t *testing.T) {
	ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := ex.Extract(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, errors.IsUpstreamUnavailable(err))
}
