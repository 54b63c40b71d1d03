package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pdf-chat-be/pkg/answer"
)

const answerPath = "/v1/answers"

type GroqClient struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

// Ensure GroqClient implements AnswerProvider
var _ answer.AnswerProvider = &GroqClient{}

func NewGroqClient(baseURL, apiKey, modelName string) *GroqClient {
	return &GroqClient{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type answerRequest struct {
	Message  string          `json:"message"`
	History  []answer.Turn   `json:"history"`
	Document json.RawMessage `json:"document,omitempty"`
	Model    string          `json:"model,omitempty"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

// --- Interface Implementation ---

func (g *GroqClient) GetAnswer(ctx context.Context, message string, history []answer.Turn, document json.RawMessage) (string, error) {
	// history must never serialize as null; the endpoint expects a list.
	if history == nil {
		history = []answer.Turn{}
	}

	reqPayload := answerRequest{
		Message:  message,
		History:  history,
		Document: document,
		Model:    g.ModelName,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", &answer.QueryError{Message: "marshal request", Err: err}
	}

	url := g.BaseURL + answerPath
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", &answer.QueryError{Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.APIKey)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", &answer.QueryError{Message: "answer generation request failed", Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &answer.QueryError{Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &answer.QueryError{
			Message: fmt.Sprintf("answer generation failed: status %d, body: %s", resp.StatusCode, string(respBytes)),
		}
	}

	var parsed answerResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", &answer.QueryError{Message: "unmarshal response", Err: err}
	}
	if parsed.Answer == "" {
		return "", &answer.QueryError{Message: "unexpected response shape: missing answer field"}
	}

	return parsed.Answer, nil
}
