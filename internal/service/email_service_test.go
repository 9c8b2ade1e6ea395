package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusufkecer/bookshelf-backend/internal/logger"
)

func TestEmailService_SendResetToken(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewEmailService("re_key", "Bookshelf <noreply@example.com>", logger.Discard())
	s.endpoint = srv.URL

	err := s.SendResetToken("test@gmail.com", "https://books.example.com/reset/1/abc")
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_key", auth)
	assert.Equal(t, "Bookshelf <noreply@example.com>", got["from"])
	assert.Equal(t, []any{"test@gmail.com"}, got["to"])
	assert.Contains(t, got["html"], "https://books.example.com/reset/1/abc")
}

func TestEmailService_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	s := NewEmailService("re_key", "nobody", logger.Discard())
	s.endpoint = srv.URL

	err := s.SendResetToken("test@gmail.com", "https://books.example.com/reset/1/abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestEmailService_WithoutKeySendsNothing(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s := NewEmailService("", "", logger.Discard())
	s.endpoint = srv.URL

	assert.NoError(t, s.SendResetToken("test@gmail.com", "https://books.example.com/reset/1/abc"))
	assert.False(t, called)
}

func TestEmailService_WithoutKeyKeepsLinkOutOfInfoLogs(t *testing.T) {
	const link = "https://books.example.com/reset/1/0b0e6a52-9d1c-4f3e-9a57-2f0c8c7f1d11"

	var info bytes.Buffer
	s := NewEmailService("", "", logger.New(&info, "development", "info"))
	require.NoError(t, s.SendResetToken("test@gmail.com", link))
	assert.NotContains(t, info.String(), link)

	var debug bytes.Buffer
	s = NewEmailService("", "", logger.New(&debug, "development", "debug"))
	require.NoError(t, s.SendResetToken("test@gmail.com", link))
	assert.Contains(t, debug.String(), link)
}

func TestBuildResetEmail_EscapesLink(t *testing.T) {
	body := buildResetEmail(`https://x.example.com/1/"><script>`)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&#34;&gt;&lt;script&gt;")
}
