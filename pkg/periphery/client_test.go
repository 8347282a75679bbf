package periphery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallSuccessDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cr3t", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(logStub())
	}))
	defer srv.Close()

	c := New(srv.URL, "s3cr3t")
	out, err := c.StartContainer(context.Background(), "web")
	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestCallRemoteFailureNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(remoteError{Error: "container not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, "s3cr3t")
	_, err := c.StartContainer(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, kerrors.Has(err, kerrors.KindPeripheryRemoteFailure))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCallBadVersionNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotImplemented)
	}))
	defer srv.Close()

	c := New(srv.URL, "s3cr3t")
	_, err := c.StartContainer(context.Background(), "web")
	require.Error(t, err)
	assert.True(t, kerrors.Has(err, kerrors.KindPeripheryRemoteFailure))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCallUnreachableRetriesThenFails(t *testing.T) {
	c := New("http://127.0.0.1:1", "s3cr3t") // nothing listens here
	start := time.Now()
	_, err := c.StartContainer(context.Background(), "web")
	require.Error(t, err)
	assert.True(t, kerrors.Has(err, kerrors.KindPeripheryUnreachable))
	// 2 retries means at least two backoff waits (100ms, 200ms).
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)
}

func TestCallMalformedRetriesThenFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, "s3cr3t")
	_, err := c.StartContainer(context.Background(), "web")
	require.Error(t, err)
	assert.True(t, kerrors.Has(err, kerrors.KindPeripheryUnreachable))
	assert.EqualValues(t, MaxRetries+1, atomic.LoadInt32(&calls))
}

func TestIsOldDockerSignalError(t *testing.T) {
	assert.True(t, IsOldDockerSignalError("docker: unknown flag: --signal\nSee 'docker stop --help'"))
	assert.False(t, IsOldDockerSignalError("container not found"))
}

func logStub() map[string]any {
	return map[string]any{
		"stage":   "start",
		"success": true,
		"start_ts": time.Now(),
		"end_ts":   time.Now(),
	}
}
