package cohere

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pdf-chat-be/pkg/ingestion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessDocumentSuccess(t *testing.T) {
	var gotPath, gotAuth, gotFileName string
	var gotFileContent []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFileName = header.Filename
		gotFileContent, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chunks": 3, "embedding_model": "embed-english-v3.0"}`))
	}))
	defer srv.Close()

	client := NewCohereClient(srv.URL, "test-key")
	payload, err := client.ProcessDocument(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, "/v1/documents/process", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "report.pdf", gotFileName)
	assert.Equal(t, "%PDF-1.4 fake", string(gotFileContent))
	assert.JSONEq(t, `{"chunks": 3, "embedding_model": "embed-english-v3.0"}`, string(payload))
}

func TestProcessDocumentNoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewCohereClient(srv.URL, "")
	_, err := client.ProcessDocument(context.Background(), "a.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestProcessDocumentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error": "model overloaded"}`))
	}))
	defer srv.Close()

	client := NewCohereClient(srv.URL, "k")
	_, err := client.ProcessDocument(context.Background(), "a.pdf", strings.NewReader("x"))

	var ingErr *ingestion.IngestionError
	require.ErrorAs(t, err, &ingErr)
	assert.Contains(t, ingErr.Error(), "status 502")
}

func TestProcessDocumentInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := NewCohereClient(srv.URL, "k")
	_, err := client.ProcessDocument(context.Background(), "a.pdf", strings.NewReader("x"))

	var ingErr *ingestion.IngestionError
	require.ErrorAs(t, err, &ingErr)
	assert.Contains(t, ingErr.Error(), "not valid JSON")
}

func TestProcessDocumentConnectionRefused(t *testing.T) {
	client := NewCohereClient("http://127.0.0.1:1", "k")
	_, err := client.ProcessDocument(context.Background(), "a.pdf", strings.NewReader("x"))

	var ingErr *ingestion.IngestionError
	require.ErrorAs(t, err, &ingErr)
	assert.NotNil(t, ingErr.Unwrap())
}
