package assist

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// allowedExtensions is the fixed document vocabulary for matter pre-fill.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".xlsx": {},
}

// Upload is one file from a multipart pre-fill request.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// StoredDocument records where a validated upload landed in object storage
// and the fields the extractor suggested from it.
type StoredDocument struct {
	Filename  string            `json:"filename"`
	ObjectKey string            `json:"objectKey"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// PreFillResult is the outcome of one ingestion run.  SuggestedFields is the
// merged field set across documents; the first document to suggest a field
// wins, later documents never overwrite it.
type PreFillResult struct {
	Documents       []StoredDocument  `json:"documents"`
	SuggestedFields map[string]string `json:"suggestedFields"`
}

// ObjectStore is the durable storage port for validated uploads.
type ObjectStore interface {
	Store(ctx context.Context, identity, filename string, size int64, content io.Reader) (objectKey string, err error)
}

// Extractor is the document-intelligence port.  It sees only uploads that
// have already passed validation.
type Extractor interface {
	Extract(ctx context.Context, objectKey string) (map[string]string, error)
}

// PreFillService validates uploaded document sets, stores them and runs
// field extraction.
type PreFillService struct {
	store        ObjectStore
	extractor    Extractor
	maxFileBytes int64
	logger       logging.Logger
}

// NewPreFillService creates the ingestion service.  extractor may be nil;
// documents are then stored without field suggestions.
func NewPreFillService(store ObjectStore, extractor Extractor, maxFileBytes int64, logger logging.Logger) *PreFillService {
	return &PreFillService{
		store:        store,
		extractor:    extractor,
		maxFileBytes: maxFileBytes,
		logger:       logger.Named("prefill"),
	}
}

// ValidateFiles checks the whole upload set before any storage or
// extraction work: a single bad file rejects the set.
func (s *PreFillService) ValidateFiles(files []Upload) error {
	if len(files) == 0 {
		return errors.NewValidation("at least one file is required")
	}
	for _, f := range files {
		if strings.TrimSpace(f.Filename) == "" {
			return errors.NewValidation("file name is required")
		}
		ext := strings.ToLower(filepath.Ext(f.Filename))
		if _, ok := allowedExtensions[ext]; !ok {
			return errors.NewValidationf("file %q has unsupported type %q", f.Filename, ext).
				WithDetail("supported types: pdf, docx, xlsx")
		}
		if s.maxFileBytes > 0 && f.Size > s.maxFileBytes {
			return errors.NewValidationf("file %q exceeds the maximum size of %d bytes", f.Filename, s.maxFileBytes).
				WithDetailf("received %d bytes", f.Size)
		}
	}
	return nil
}

// Ingest validates, stores and extracts the upload set for identity.  A
// rejected set never reaches storage or the extraction pipeline.
func (s *PreFillService) Ingest(ctx context.Context, identity string, files []Upload) (*PreFillResult, error) {
	if identity == "" {
		return nil, errors.NewValidation("identity is required")
	}
	if err := s.ValidateFiles(files); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, errors.Upstream("document storage is not configured")
	}

	result := &PreFillResult{
		Documents:       make([]StoredDocument, 0, len(files)),
		SuggestedFields: make(map[string]string),
	}

	for _, f := range files {
		key, err := s.store.Store(ctx, identity, f.Filename, f.Size, f.Content)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUpstreamUnavailable,
				fmt.Sprintf("failed to store %q", f.Filename))
		}

		doc := StoredDocument{Filename: f.Filename, ObjectKey: key}
		if s.extractor != nil {
			fields, err := s.extractor.Extract(ctx, key)
			if err != nil {
				s.logger.Warn("field extraction failed",
					logging.String("object_key", key), logging.Err(err))
			} else {
				doc.Fields = fields
				for k, v := range fields {
					if _, exists := result.SuggestedFields[k]; !exists {
						result.SuggestedFields[k] = v
					}
				}
			}
		}
		result.Documents = append(result.Documents, doc)
	}

	s.logger.Info("pre-fill ingestion complete",
		logging.String("identity", identity),
		logging.Int("documents", len(result.Documents)))
	return result, nil
}
