package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"pdf-chat-be/pkg/ingestion"
)

const processPath = "/v1/documents/process"

type CohereClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// Ensure CohereClient implements DocumentProcessor
var _ ingestion.DocumentProcessor = &CohereClient{}

func NewCohereClient(baseURL, apiKey string) *CohereClient {
	return &CohereClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ProcessDocument uploads the raw PDF bytes as multipart file content and
// returns the endpoint's processed-document payload. The payload is
// validated as JSON and otherwise treated as a black box. No local size
// limit is enforced; that is the endpoint's concern.
func (c *CohereClient) ProcessDocument(ctx context.Context, fileName string, file io.Reader) (json.RawMessage, error) {
	// 1. Build multipart body
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, &ingestion.IngestionError{Message: "prepare upload", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &ingestion.IngestionError{Message: "read uploaded file", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ingestion.IngestionError{Message: "prepare upload", Err: err}
	}

	// 2. Send request
	url := c.BaseURL + processPath
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, &ingestion.IngestionError{Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, &ingestion.IngestionError{Message: "document processing request failed", Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ingestion.IngestionError{Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ingestion.IngestionError{
			Message: fmt.Sprintf("document processing failed: status %d, body: %s", resp.StatusCode, string(respBytes)),
		}
	}

	// 3. The payload is opaque, but it must at least be JSON.
	if !json.Valid(respBytes) {
		return nil, &ingestion.IngestionError{Message: "unexpected response shape: not valid JSON"}
	}

	return json.RawMessage(respBytes), nil
}
