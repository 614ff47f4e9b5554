package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildApprovalLink(t *testing.T) {
	link, err := BuildApprovalLink("http://localhost:8080/care-form", "SN 42/A")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/care-form", u.Path)
	assert.Equal(t, "SN 42/A", u.Query().Get("unit_id"))
	assert.Equal(t, "True", u.Query().Get("rvp_approval"))
}

func TestBuildApprovalLink_Invalid(t *testing.T) {
	_, err := BuildApprovalLink("://bad", "U1")
	assert.Error(t, err)
}

func TestNewApprovalRequest(t *testing.T) {
	msg := NewApprovalRequest("rvp@example.com", "", "http://x/care-form?unit_id=U1", "U1")
	assert.Equal(t, DefaultSubject, msg.Subject)
	assert.Contains(t, msg.Body, "http://x/care-form?unit_id=U1")
	assert.Equal(t, TypeApprovalRequested, msg.Type)
}

func TestLogNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := NewLogNotifier(logger)

	require.NoError(t, n.Send(context.Background(), Message{To: "rvp@example.com", UnitID: "U1"}))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "U1", hook.LastEntry().Data["unit_id"])
}

func TestWebhookNotifier(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.Send(context.Background(), Message{To: "rvp@example.com", UnitID: "U1", Subject: DefaultSubject})
	require.NoError(t, err)
	assert.Equal(t, "rvp@example.com", got.To)
	assert.Equal(t, "U1", got.UnitID)
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL).Send(context.Background(), Message{To: "x@example.com"})
	assert.ErrorContains(t, err, "502")
}
