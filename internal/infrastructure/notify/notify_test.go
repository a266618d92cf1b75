package notify

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/pkg/logger"
	"github.com/doeshing/ronde/internal/ports"
)

func TestPushoverPostsForm(t *testing.T) {
	var got http.Header
	var form map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		require.NoError(t, r.ParseForm())
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":1}`))
	}))
	defer server.Close()

	cfg := domain.PushoverConfig{User: "u", Token: "t", URL: "https://status.example.org"}
	p := NewPushover(cfg, WithEndpoint(server.URL), WithHTTPClient(server.Client()))
	err := p.Notify(context.Background(), ports.Notification{
		Probe:      "web",
		Transition: domain.TransitionNewFailure,
		Title:      "New Failure of web",
		Message:    "curl -f http://localhost\nexit 22",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", got.Get("Content-Type"))
	assert.Equal(t, map[string]string{
		"user":      "u",
		"token":     "t",
		"monospace": "1",
		"title":     "New Failure of web",
		"message":   "curl -f http://localhost\nexit 22",
		"url":       "https://status.example.org",
	}, form)
}

func TestPushoverOmitsEmptyURL(t *testing.T) {
	var hasURL bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		_, hasURL = r.PostForm["url"]
	}))
	defer server.Close()

	p := NewPushover(domain.PushoverConfig{User: "u", Token: "t"}, WithEndpoint(server.URL))
	require.NoError(t, p.Notify(context.Background(), ports.Notification{Title: "x"}))
	assert.False(t, hasURL)
}

func TestPushoverTruncates(t *testing.T) {
	var title, message string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		title = r.PostForm.Get("title")
		message = r.PostForm.Get("message")
	}))
	defer server.Close()

	p := NewPushover(domain.PushoverConfig{User: "u", Token: "t"}, WithEndpoint(server.URL))
	err := p.Notify(context.Background(), ports.Notification{
		Title:   "T" + strings.Repeat("é", 400),
		Message: "M" + strings.Repeat("x", 2000),
	})
	require.NoError(t, err)

	assert.Len(t, []rune(title), domain.MaxNotificationTitle)
	assert.True(t, strings.HasPrefix(title, "T"))
	assert.Len(t, message, domain.MaxNotificationMessage)
	assert.True(t, strings.HasPrefix(message, "M"))
}

func TestPushoverErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"user":"invalid","status":0}`))
	}))
	defer server.Close()

	p := NewPushover(domain.PushoverConfig{User: "u", Token: "t"}, WithEndpoint(server.URL))
	err := p.Notify(context.Background(), ports.Notification{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), `"user":"invalid"`)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.NewWriter(&buf, true))
	require.NoError(t, n.Notify(context.Background(), ports.Notification{
		Probe:      "disk",
		Transition: domain.TransitionRecovered,
		Title:      "Back from failure on disk",
	}))
	assert.Contains(t, buf.String(), "Back from failure on disk")
	assert.Contains(t, buf.String(), "recovered")
	assert.Equal(t, "log", n.Name())
}
