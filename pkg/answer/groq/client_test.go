package groq

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdf-chat-be/pkg/answer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAnswerSuccess(t *testing.T) {
	var gotPath string
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer": "It is a summary."}`))
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "test-key", "llama-3.3-70b-versatile")
	history := []answer.Turn{
		{Content: "Document uploaded: report.pdf", Sender: "system"},
		{Content: "What is this document about?", Sender: "user"},
	}
	got, err := client.GetAnswer(context.Background(), "What is this document about?", history, json.RawMessage(`{"chunks": 3}`))
	require.NoError(t, err)
	assert.Equal(t, "It is a summary.", got)

	assert.Equal(t, "/v1/answers", gotPath)
	assert.JSONEq(t, `"What is this document about?"`, string(gotBody["message"]))
	assert.JSONEq(t, `{"chunks": 3}`, string(gotBody["document"]))
	assert.JSONEq(t, `"llama-3.3-70b-versatile"`, string(gotBody["model"]))

	var turns []answer.Turn
	require.NoError(t, json.Unmarshal(gotBody["history"], &turns))
	require.Len(t, turns, 2)
	assert.Equal(t, "system", turns[0].Sender)
	assert.Equal(t, "user", turns[1].Sender)
}

func TestGetAnswerWithoutDocument(t *testing.T) {
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.Write([]byte(`{"answer": "No document was provided."}`))
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "k", "m")
	got, err := client.GetAnswer(context.Background(), "hello", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "No document was provided.", got)

	// Absent document is omitted, not null; history is always a list.
	_, hasDocument := gotBody["document"]
	assert.False(t, hasDocument)
	assert.JSONEq(t, `[]`, string(gotBody["history"]))
}

func TestGetAnswerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "k", "m")
	_, err := client.GetAnswer(context.Background(), "hello", nil, nil)

	var qErr *answer.QueryError
	require.ErrorAs(t, err, &qErr)
	assert.Contains(t, qErr.Error(), "status 429")
}

func TestGetAnswerMissingAnswerField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "wrong shape"}`))
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "k", "m")
	_, err := client.GetAnswer(context.Background(), "hello", nil, nil)

	var qErr *answer.QueryError
	require.ErrorAs(t, err, &qErr)
	assert.Contains(t, qErr.Error(), "missing answer field")
}

func TestGetAnswerConnectionRefused(t *testing.T) {
	client := NewGroqClient("http://127.0.0.1:1", "k", "m")
	_, err := client.GetAnswer(context.Background(), "hello", nil, nil)

	var qErr *answer.QueryError
	require.ErrorAs(t, err, &qErr)
	assert.NotNil(t, qErr.Unwrap())
}
