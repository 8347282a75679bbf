package statuscache

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/periphery"
	"github.com/cuemby/komodo-core/pkg/store"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Type   string `json:"type"`
	Params any    `json:"params"`
}

// fakePeriphery answers GetSystemInformation/GetSystemProcesses with
// canned data, or always 500s when unreachable is set.
func fakePeriphery(t *testing.T, unreachable *bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unreachable != nil && *unreachable {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"down"}`))
			return
		}
		var env envelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		switch env.Type {
		case "GetSystemInformation":
			json.NewEncoder(w).Encode(periphery.SystemInfo{Version: "1.2.3", OS: "linux", Arch: "amd64"})
		case "GetSystemProcesses":
			json.NewEncoder(w).Encode([]periphery.ProcessInfo{{PID: 1, Name: "init"}})
		default:
			w.WriteHeader(http.StatusNotImplemented)
		}
	}))
}

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func putServer(t *testing.T, db *store.DB, id, name string, enabled bool) komodo.Server {
	t.Helper()
	s := komodo.Server{
		Envelope: komodo.Envelope{ID: id, Name: name},
		Config:   komodo.ServerConfig{Address: "unused", Enabled: enabled},
	}
	require.NoError(t, db.PutServer(s))
	return s
}

func TestCachePollsEnabledServerAndSnapshotsOk(t *testing.T) {
	unreachable := false
	srv := fakePeriphery(t, &unreachable)
	defer srv.Close()

	db := openTestDB(t)
	s := putServer(t, db, "srv-1", "server-one", true)

	dial := func(komodo.Server) *periphery.Client { return periphery.New(srv.URL, "secret") }
	c := New(db, dial)

	err := c.poll(s)
	require.NoError(t, err)

	info, ok := c.Snapshot("srv-1")
	require.True(t, ok)
	require.Equal(t, komodo.ServerStateOk, info.State)
	require.Equal(t, "1.2.3", info.PeripheryVersion)
}

func TestCacheMarksUnreachableOnFailure(t *testing.T) {
	unreachable := true
	srv := fakePeriphery(t, &unreachable)
	defer srv.Close()

	db := openTestDB(t)
	s := putServer(t, db, "srv-2", "server-two", true)

	dial := func(komodo.Server) *periphery.Client { return periphery.New(srv.URL, "secret") }
	c := New(db, dial)

	err := c.poll(s)
	require.Error(t, err)

	info, ok := c.Snapshot("srv-2")
	require.True(t, ok)
	require.Equal(t, komodo.ServerStateNotOk, info.State)
}

func TestCacheSyncStartsAndStopsPollersWithServerSet(t *testing.T) {
	unreachable := false
	srv := fakePeriphery(t, &unreachable)
	defer srv.Close()

	db := openTestDB(t)
	putServer(t, db, "srv-3", "server-three", true)

	dial := func(komodo.Server) *periphery.Client { return periphery.New(srv.URL, "secret") }
	c := New(db, dial)

	c.sync()
	require.Len(t, c.cancels, 1)

	// Disabling the server removes it from the next sync.
	disabled := komodo.Server{Envelope: komodo.Envelope{ID: "srv-3", Name: "server-three"}, Config: komodo.ServerConfig{Enabled: false}}
	require.NoError(t, db.PutServer(disabled))

	c.sync()
	require.Len(t, c.cancels, 0)

	c.Stop()
}

func TestSnapshotMissingReturnsFalse(t *testing.T) {
	db := openTestDB(t)
	c := New(db, func(komodo.Server) *periphery.Client { return nil })

	_, ok := c.Snapshot("never-polled")
	require.False(t, ok)
}

func TestIntervalConstants(t *testing.T) {
	require.Equal(t, 15*time.Second, NormalInterval)
	require.Equal(t, 60*time.Second, UnreachableInterval)
	require.Equal(t, 15*time.Second, CacheTTL)
}
