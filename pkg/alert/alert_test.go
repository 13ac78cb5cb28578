package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDigest() *Digest {
	return &Digest{
		Title:       "Narrative spread digest",
		Narrative:   "Technology",
		TotalEvents: 42,
		Statements:  []string{"statement one", "statement two"},
	}
}

func TestWebhookSend(t *testing.T) {
	var got Digest
	var signature string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature = r.Header.Get("X-Signature-256")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	wh := NewWebhook(ts.URL, "secret")
	require.NoError(t, wh.Send(context.Background(), testDigest()))

	assert.Equal(t, "Technology", got.Narrative)
	assert.Equal(t, 42, got.TotalEvents)
	assert.Contains(t, signature, "sha256=")
}

func TestWebhookSendNoSecret(t *testing.T) {
	var signature string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature = r.Header.Get("X-Signature-256")
	}))
	defer ts.Close()

	wh := NewWebhook(ts.URL, "")
	require.NoError(t, wh.Send(context.Background(), testDigest()))
	assert.Empty(t, signature)
}

func TestWebhookSendErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	err := NewWebhook(ts.URL, "").Send(context.Background(), testDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSlackSend(t *testing.T) {
	var payload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	}))
	defer ts.Close()

	require.NoError(t, NewSlack(ts.URL).Send(context.Background(), testDigest()))
	assert.Contains(t, payload, "blocks")
}

func TestDiscordSend(t *testing.T) {
	var payload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	require.NoError(t, NewDiscord(ts.URL).Send(context.Background(), testDigest()))
	assert.Contains(t, payload, "embeds")
}

func TestManagerBroadcast(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	m := NewManager([]Notifier{NewWebhook(ok.URL, ""), NewWebhook(bad.URL, "")})
	require.True(t, m.HasNotifiers())

	err := m.Broadcast(context.Background(), testDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	empty := NewManager(nil)
	assert.False(t, empty.HasNotifiers())
	assert.NoError(t, empty.Broadcast(context.Background(), testDigest()))
}
