package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinikvoice/admin-api/pkg/logger"
)

func TestNotifyPostsJSONPayload(t *testing.T) {
	var (
		gotBody        []byte
		gotContentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(Config{
		Endpoints: map[string]string{"appointment.approved": srv.URL},
	}, logger.NewLogger(nil))

	payload, _ := json.Marshal(map[string]string{"randevu_id": "r-1"})
	err := n.Notify(context.Background(), "appointment.approved", payload)
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"randevu_id":"r-1"}`, string(gotBody))
}

func TestNotifyNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewNotifier(Config{
		Endpoints: map[string]string{"call_list.activated": srv.URL},
	}, logger.NewLogger(nil))

	err := n.Notify(context.Background(), "call_list.activated", []byte(`{}`))
	require.Error(t, err)
}

func TestNotifyMissingEndpoint(t *testing.T) {
	n := NewNotifier(Config{Endpoints: map[string]string{}}, logger.NewLogger(nil))

	err := n.Notify(context.Background(), "appointment.rejected", []byte(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEndpoint))
	assert.False(t, n.HasEndpoint("appointment.rejected"))
}
