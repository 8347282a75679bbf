package stackctl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuemby/komodo-core/pkg/actionstate"
	"github.com/cuemby/komodo-core/pkg/journal"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/periphery"
	"github.com/cuemby/komodo-core/pkg/store"
	"github.com/stretchr/testify/require"
)

type req struct {
	Type   string `json:"type"`
	Params any    `json:"params"`
}

// fakePeriphery answers every compose verb with one successful log
// line tagged with the verb name, so tests can assert on call routing
// without a real compose engine.
func fakePeriphery(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope req
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		logs := []komodo.Log{{Stage: envelope.Type, Success: true}}
		json.NewEncoder(w).Encode(logs)
	}))
}

func newController(t *testing.T, dial Dialer) (*Controller, *store.DB) {
	t.Helper()
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	j := journal.New(db, nil)
	return New(db, j, actionstate.NewRegistry(), dial), db
}

func seedStack(t *testing.T, db *store.DB, id string) komodo.Stack {
	t.Helper()
	server := komodo.Server{Envelope: komodo.Envelope{ID: "srv-1", Name: "server-one"}, Config: komodo.ServerConfig{Enabled: true}}
	require.NoError(t, db.PutServer(server))

	stack := komodo.Stack{
		Envelope: komodo.Envelope{ID: id, Name: "stack-" + id},
		Config:   komodo.StackConfig{ServerID: "srv-1", FileContents: "services:\n  web:\n    image: nginx\n"},
	}
	require.NoError(t, db.PutStack(stack))
	return stack
}

func TestDeployRunsComposeUpAndFinalizes(t *testing.T) {
	srv := fakePeriphery(t)
	defer srv.Close()

	c, db := newController(t, func(komodo.Server) *periphery.Client { return periphery.New(srv.URL, "secret") })
	seedStack(t, db, "s1")

	update, err := c.Deploy(context.Background(), "s1", "", nil, "user-1")
	require.NoError(t, err)
	require.Equal(t, komodo.UpdateStatusComplete, update.Status)
	require.True(t, update.Success)

	var sawComposeUp bool
	for _, l := range update.Logs {
		if l.Stage == "ComposeUp" {
			sawComposeUp = true
		}
	}
	require.True(t, sawComposeUp)
}

func TestDeployFailsWhenStackAlreadyBusy(t *testing.T) {
	srv := fakePeriphery(t)
	defer srv.Close()

	c, db := newController(t, func(komodo.Server) *periphery.Client { return periphery.New(srv.URL, "secret") })
	seedStack(t, db, "s2")

	guard, err := c.guard("s2", flagDeploying)
	require.NoError(t, err)
	defer guard.Release()

	_, err = c.Deploy(context.Background(), "s2", "", nil, "user-1")
	require.Error(t, err)
}

func TestDeployIfChangedSkipsWhenContentsUnchanged(t *testing.T) {
	srv := fakePeriphery(t)
	defer srv.Close()

	c, db := newController(t, func(komodo.Server) *periphery.Client { return periphery.New(srv.URL, "secret") })
	stack := seedStack(t, db, "s3")
	stack.Info = komodo.StackInfo{
		DeployedContents: []komodo.FileContentsEntry{{Path: "compose.yaml", Contents: "same"}},
		RemoteContents:   []komodo.FileContentsEntry{{Path: "compose.yaml", Contents: "same"}},
	}
	require.NoError(t, db.PutStack(stack))

	update, err := c.DeployIfChanged(context.Background(), "s3", nil, "user-1")
	require.NoError(t, err)
	require.True(t, update.Success)
	require.Contains(t, update.Logs[len(update.Logs)-1].Stdout, "cancelled")
}

func TestDeployIfChangedDeploysWhenContentsDiffer(t *testing.T) {
	srv := fakePeriphery(t)
	defer srv.Close()

	c, db := newController(t, func(komodo.Server) *periphery.Client { return periphery.New(srv.URL, "secret") })
	stack := seedStack(t, db, "s4")
	stack.Info = komodo.StackInfo{
		DeployedContents: []komodo.FileContentsEntry{{Path: "compose.yaml", Contents: "old"}},
		RemoteContents:   []komodo.FileContentsEntry{{Path: "compose.yaml", Contents: "new"}},
	}
	require.NoError(t, db.PutStack(stack))

	update, err := c.DeployIfChanged(context.Background(), "s4", nil, "user-1")
	require.NoError(t, err)
	require.True(t, update.Success)

	var sawComposeUp bool
	for _, l := range update.Logs {
		if l.Stage == "ComposeUp" {
			sawComposeUp = true
		}
	}
	require.True(t, sawComposeUp)
}

func TestPullRunsComposePull(t *testing.T) {
	srv := fakePeriphery(t)
	defer srv.Close()

	c, db := newController(t, func(komodo.Server) *periphery.Client { return periphery.New(srv.URL, "secret") })
	seedStack(t, db, "s5")

	update, err := c.Pull(context.Background(), "s5", "", "user-1")
	require.NoError(t, err)
	require.True(t, update.Success)
	require.Equal(t, "ComposePull", update.Logs[len(update.Logs)-1].Stage)
}

func TestLifecycleOpsRouteToExpectedComposeVerb(t *testing.T) {
	srv := fakePeriphery(t)
	defer srv.Close()

	dial := func(komodo.Server) *periphery.Client { return periphery.New(srv.URL, "secret") }

	cases := []struct {
		name string
		run  func(c *Controller, stackID string) (*komodo.Update, error)
		verb string
	}{
		{"start", func(c *Controller, id string) (*komodo.Update, error) { return c.Start(context.Background(), id, "", "u") }, "ComposeStart"},
		{"restart", func(c *Controller, id string) (*komodo.Update, error) { return c.Restart(context.Background(), id, "", "u") }, "ComposeRestart"},
		{"pause", func(c *Controller, id string) (*komodo.Update, error) { return c.Pause(context.Background(), id, "", "u") }, "ComposePause"},
		{"unpause", func(c *Controller, id string) (*komodo.Update, error) { return c.Unpause(context.Background(), id, "", "u") }, "ComposeUnpause"},
		{"stop", func(c *Controller, id string) (*komodo.Update, error) { return c.Stop(context.Background(), id, "", nil, "u") }, "ComposeStop"},
		{"destroy", func(c *Controller, id string) (*komodo.Update, error) { return c.Destroy(context.Background(), id, "", false, nil, "u") }, "ComposeDestroy"},
	}

	for i, tc := range cases {
		c, db := newController(t, dial)
		stackID := "lifecycle-" + tc.name + "-" + string(rune('a'+i))
		seedStack(t, db, stackID)

		update, err := tc.run(c, stackID)
		require.NoError(t, err, tc.name)
		require.True(t, update.Success, tc.name)
		require.Equal(t, tc.verb, update.Logs[len(update.Logs)-1].Stage, tc.name)
	}
}
