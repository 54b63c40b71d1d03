package ingestion

import (
	"context"
	"encoding/json"
	"io"
)

// DocumentProcessor adapts an uploaded PDF into a call against the
// external document-processing endpoint. The returned payload is opaque:
// it is stored and forwarded verbatim, never inspected.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, fileName string, file io.Reader) (json.RawMessage, error)
}

// IngestionError reports a failed document-processing call: transport
// failure, a non-success status, or a response that is not the expected
// payload shape.
type IngestionError struct {
	Message string
	Err     error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
