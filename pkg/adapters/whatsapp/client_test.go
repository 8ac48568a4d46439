package whatsapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/adapters/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.out"}]}`))
	}))
	defer srv.Close()

	c := whatsapp.NewClient("token-123", "106540352242922", whatsapp.WithBaseURL(srv.URL))
	err := c.Send(context.Background(), "27821234567", "Welcome!")
	require.NoError(t, err)

	assert.Equal(t, "/v18.0/106540352242922/messages", gotPath)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "whatsapp", gotBody["messaging_product"])
	assert.Equal(t, "individual", gotBody["recipient_type"])
	assert.Equal(t, "27821234567", gotBody["to"])
	assert.Equal(t, "text", gotBody["type"])
	assert.Equal(t, map[string]any{"body": "Welcome!"}, gotBody["text"])
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","type":"OAuthException","code":100}}`))
	}))
	defer srv.Close()

	c := whatsapp.NewClient("token", "phone", whatsapp.WithBaseURL(srv.URL))
	err := c.Send(context.Background(), "27821234567", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "Invalid parameter")
}

func TestClient_NotConfigured(t *testing.T) {
	c := whatsapp.NewClient("", "")
	assert.False(t, c.Configured())
	assert.ErrorIs(t, c.Send(context.Background(), "27821234567", "hi"), whatsapp.ErrNotConfigured)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := whatsapp.NewClient("token", "phone",
		whatsapp.WithBaseURL(srv.URL),
		whatsapp.WithRateLimit(0.001, 1),
	)
	require.NoError(t, c.Send(context.Background(), "27821234567", "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Send(ctx, "27821234567", "second")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
