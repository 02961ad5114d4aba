package upload

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.FixedZone("CET", 3600))

func newTestClient(url string) *Client {
	c := NewClient(url, "", 0, &http.Client{Timeout: 2 * time.Second}, nil)
	c.Clock = func() time.Time { return fixedNow }
	return c
}

func TestCheckSize_Boundary(t *testing.T) {
	assert.NoError(t, CheckSize("AAAA", 3), "exactly at the limit passes")
	assert.ErrorIs(t, CheckSize("AAAAA", 3), ErrPayloadTooLarge)

	under := strings.Repeat("A", 1398100) // 1048575 bytes
	over := strings.Repeat("A", 1398104)  // 1048578 bytes
	assert.NoError(t, CheckSize(under, DefaultMaxPayloadBytes))
	assert.ErrorIs(t, CheckSize("data:image/jpeg;base64,"+over, 0), ErrPayloadTooLarge)
}

func TestCheckSize_MessageShowsExactBytes(t *testing.T) {
	over := strings.Repeat("A", 1398104)
	err := CheckSize(over, DefaultMaxPayloadBytes)
	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Message, "1,048,578 bytes")
	assert.Contains(t, ue.Message, "1,048,576 bytes")
}

func TestStripDataURI(t *testing.T) {
	assert.Equal(t, "QUJD", StripDataURI("data:image/jpeg;base64,QUJD"))
	assert.Equal(t, "QUJD", StripDataURI("QUJD"))
	assert.Equal(t, "", StripDataURI("data:,"))
}

func TestSubmit_OversizeMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.MaxPayloadBytes = 3
	_, err := c.Submit(context.Background(), "AAAAAAAA")
	require.Error(t, err)
	var ue *Error
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, KindPayloadTooLarge, ue.Kind)
	assert.Zero(t, hits.Load())
}

func TestSubmit_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "QUJD", body["image"])
		assert.Equal(t, "web-upload", body["tagId"])
		assert.Equal(t, "2024-03-09T13:05:07.123Z", body["timestamp"])
		_, _ = w.Write([]byte(`{"success":true,"postUrl":"https://example/post/1"}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Submit(context.Background(), "data:image/jpeg;base64,QUJD")
	require.NoError(t, err)
	assert.Equal(t, "https://example/post/1", res.PostURL)
	assert.NotEmpty(t, res.RequestID)
}

func TestSubmit_ServerRejected(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"with reason", `{"success":false,"error":"boom"}`, "boom"},
		{"without reason", `{"success":false}`, DefaultRejectMessage},
		{"other shape", `{"ok":true}`, DefaultRejectMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Submit(context.Background(), "QUJD")
			require.ErrorIs(t, err, ErrServerRejected)
			var ue *Error
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tc.want, ue.Message)
		})
	}
}

func TestSubmit_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Submit(context.Background(), "QUJD")
	require.ErrorIs(t, err, ErrNetworkFailure)
	assert.False(t, errors.Is(err, ErrServerRejected))
}

func TestSubmit_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Submit(context.Background(), "QUJD")
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestSubmit_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTestClient(srv.URL).Submit(ctx, "QUJD")
	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
