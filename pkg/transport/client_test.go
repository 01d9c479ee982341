package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server, retries int) *Client {
	t.Helper()
	c, err := NewClient(&Config{
		BaseURL:    srv.URL,
		APIKey:     "test-api-key",
		MaxRetries: retries,
		RetryDelay: time.Millisecond,
	}, nil)
	require.NoError(t, err)
	return c
}

func TestClientInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/project/master/7/file", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("apiKey"))
		assert.Equal(t, "session-1", r.Header.Get("sessionId"))
		assert.Equal(t, "key-1", r.Header.Get("projectKey"))
		assert.Equal(t, "ops@example.com", r.Header.Get("email"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"doc.docx","numberOfSegments":3}`, string(raw))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"OK","message":"File successfully created","dqfId":"55"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 0)
	resp, err := c.Invoke(context.Background(), &Request{
		Operation:  OpAddMasterProjectFile,
		PathParams: Params{"projectId": ID(7)},
		Headers:    Headers{SessionID: "session-1", ProjectKey: "key-1", Email: "ops@example.com"},
		Body: map[string]any{
			"name":             "doc.docx",
			"numberOfSegments": 3,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "File successfully created", resp.Message())

	var out struct {
		DqfID int64 `json:"dqfId"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, int64(55), out.DqfID)
}

func TestClientReturnsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ERROR", "message": "Project not found"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 2)
	resp, err := c.Invoke(context.Background(), &Request{
		Operation:  OpGetMasterProject,
		PathParams: Params{"projectId": "1"},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsNotFound())
	assert.False(t, resp.Has("model"))
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"model":{"id":1}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 3)
	resp, err := c.Invoke(context.Background(), &Request{
		Operation:  OpGetMasterProject,
		PathParams: Params{"projectId": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 2)
	_, err := c.Invoke(context.Background(), &Request{
		Operation:  OpGetMasterProject,
		PathParams: Params{"projectId": "1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed after 3 attempts")
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientRejectsBadRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Fail(t, "no request expected")
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 0)

	_, err := c.Invoke(context.Background(), &Request{Operation: "nope"})
	assert.Error(t, err)

	_, err = c.Invoke(context.Background(), &Request{Operation: OpGetMasterProject})
	assert.Error(t, err)
}

func TestDecodePayload(t *testing.T) {
	m, err := decodePayload(nil)
	require.NoError(t, err)
	assert.Empty(t, m)

	m, err = decodePayload([]byte(`[1,2]`))
	require.NoError(t, err)
	assert.Len(t, m["data"], 2)

	_, err = decodePayload([]byte(`{`))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{BaseURL: "https://example.com", APIKey: "k", Timeout: time.Second},
		},
		{
			name:    "bad scheme",
			cfg:     Config{BaseURL: "ftp://example.com", APIKey: "k", Timeout: time.Second},
			wantErr: true,
		},
		{
			name:    "missing key",
			cfg:     Config{BaseURL: "https://example.com", Timeout: time.Second},
			wantErr: true,
		},
		{
			name:    "negative retries",
			cfg:     Config{BaseURL: "https://example.com", APIKey: "k", Timeout: time.Second, MaxRetries: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
