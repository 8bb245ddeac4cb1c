package assist

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

type fakeStore struct {
	stored []string
	err    error
}

func (f *fakeStore) Store(_ context.Context, identity, filename string, _ int64, _ io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := fmt.Sprintf("%s/%s", identity, filename)
	f.stored = append(f.stored, key)
	return key, nil
}

type fakeExtractor struct {
	fields map[string]map[string]string
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, objectKey string) (map[string]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.fields[objectKey], nil
}

func upload(name string, size int64) Upload {
	return Upload{Filename: name, Size: size, Content: strings.NewReader("content")}
}

const maxBytes = 10 << 20

func newPreFill(store ObjectStore, ex Extractor) *PreFillService {
	return NewPreFillService(store, ex, maxBytes, logging.NewNopLogger())
}

func TestValidateFiles(t *testing.T) {
	svc := newPreFill(&fakeStore{}, nil)

	cases := []struct {
		name    string
		files   []Upload
		wantErr string
	}{
		{"empty set", nil, "at least one file"},
		{"unsupported extension", []Upload{upload("notes.txt", 100)}, "unsupported type"},
		{"no extension", []Upload{upload("README", 100)}, "unsupported type"},
		{"oversized file", []Upload{upload("big.pdf", maxBytes + 1)}, "maximum size"},
		{"one bad file rejects set", []Upload{upload("ok.pdf", 100), upload("bad.exe", 100)}, "unsupported type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.ValidateFiles(tc.files)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	assert.NoError(t, svc.ValidateFiles([]Upload{
		upload("contract.pdf", 1024),
		upload("Summary.DOCX", 2048),
		upload("budget.xlsx", maxBytes),
	}), "extension check is case-insensitive and the size limit is inclusive")
}

func TestIngest_RejectedSetNeverReachesStorage(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{}
	svc := newPreFill(store, extractor)

	_, err := svc.Ingest(context.Background(), "user-1", []Upload{
		upload("ok.pdf", 100),
		upload("bad.txt", 100),
	})

	require.Error(t, err)
	assert.Empty(t, store.stored)
	assert.Zero(t, extractor.calls)
}

func TestIngest_StoresAndExtracts(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{fields: map[string]map[string]string{
		"user-1/engagement.pdf": {"matterName": "Acme acquisition", "budget": "100000"},
		"user-1/terms.docx":     {"matterName": "Should not override", "counterparty": "Acme Corp"},
	}}
	svc := newPreFill(store, extractor)

	got, err := svc.Ingest(context.Background(), "user-1", []Upload{
		upload("engagement.pdf", 1024),
		upload("terms.docx", 512),
	})
	require.NoError(t, err)

	require.Len(t, got.Documents, 2)
	assert.Equal(t, "user-1/engagement.pdf", got.Documents[0].ObjectKey)
	assert.Equal(t, 2, extractor.calls)

	// First document to suggest a field wins.
	assert.Equal(t, "Acme acquisition", got.SuggestedFields["matterName"])
	assert.Equal(t, "Acme Corp", got.SuggestedFields["counterparty"])
}

func TestIngest_ExtractionFailureDoesNotFailIngestion(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{err: errors.Upstream("extractor down")}
	svc := newPreFill(store, extractor)

	got, err := svc.Ingest(context.Background(), "user-1", []Upload{upload("ok.pdf", 100)})
	require.NoError(t, err)

	require.Len(t, got.Documents, 1)
	assert.Empty(t, got.Documents[0].Fields)
}

func TestIngest_StoreFailureSurfacesAsUpstream(t *testing.T) {
	store := &fakeStore{err: errors.New(errors.CodeUpstreamUnavailable, "bucket unreachable")}
	svc := newPreFill(store, nil)

	_, err := svc.Ingest(context.Background(), "user-1", []Upload{upload("ok.pdf", 100)})
	require.Error(t, err)
	assert.True(t, errors.IsUpstreamUnavailable(err))
}

func TestIngest_NilExtractorStoresWithoutFields(t *testing.T) {
	store := &fakeStore{}
	svc := newPreFill(store, nil)

	got, err := svc.Ingest(context.Background(), "user-1", []Upload{upload("ok.pdf", 100)})
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Empty(t, got.SuggestedFields)
}
