package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateToCommand(t *testing.T) {
	var got messageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"/eggs L1 410\n"}]}`))
	}))
	defer srv.Close()

	cmd, err := newClient("key", srv.URL).TranslateToCommand(context.Background(), "on a ramassé 410 oeufs dans L1")
	require.NoError(t, err)
	assert.Equal(t, "eggs L1 410", cmd)

	assert.Equal(t, model, got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "on a ramassé 410 oeufs dans L1", got.Messages[0].Content)
}

func TestTranslateToCommand_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error"}`))
	}))
	defer srv.Close()

	_, err := newClient("bad", srv.URL).TranslateToCommand(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestTranslateToCommand_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	_, err := newClient("key", srv.URL).TranslateToCommand(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCleanCommand(t *testing.T) {
	assert.Equal(t, "kpi", cleanCommand("kpi"))
	assert.Equal(t, "feed L2 50", cleanCommand("```\nfeed L2 50\n```"))
	assert.Equal(t, UnknownCommand, cleanCommand("Unknown"))
	assert.Equal(t, UnknownCommand, cleanCommand("  "))
}
