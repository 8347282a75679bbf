package journal

import (
	"testing"
	"time"

	"github.com/cuemby/komodo-core/pkg/events"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) (*Journal, *store.DB, *events.Broker) {
	t.Helper()
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	broker := events.NewBroker()
	broker.Start()
	t.Cleanup(broker.Stop)

	return New(db, broker), db, broker
}

func TestJournalLifecycle(t *testing.T) {
	j, db, broker := newTestJournal(t)
	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	target := komodo.ResourceTarget{Kind: komodo.KindDeployment, ID: "dep-1"}
	u := j.Make(target, komodo.OperationDeployDeployment, "user-1", "deploying dep-1")
	assert.Equal(t, komodo.UpdateStatusQueued, u.Status)
	assert.Len(t, u.Logs, 1)

	require.NoError(t, j.Add(u))
	assert.Equal(t, komodo.UpdateStatusInProgress, u.Status)
	assert.False(t, u.StartedAt.IsZero())

	drainEvent(t, sub)

	require.NoError(t, j.Append(u, komodo.SimpleLog("pull", "image pulled")))
	assert.Len(t, u.Logs, 2)
	drainEvent(t, sub)

	require.NoError(t, j.Finalize(u, true))
	assert.Equal(t, komodo.UpdateStatusComplete, u.Status)
	assert.True(t, u.Success)
	assert.False(t, u.EndedAt.IsZero())
	drainEvent(t, sub)

	persisted, err := db.GetUpdate(u.ID)
	require.NoError(t, err)
	assert.Equal(t, komodo.UpdateStatusComplete, persisted.Status)
	assert.Len(t, persisted.Logs, 2)
}

func TestSweepOrphanedFinalizesInProgress(t *testing.T) {
	j, db, _ := newTestJournal(t)

	stuck := komodo.Update{
		ID:        "stuck-1",
		Target:    komodo.ResourceTarget{Kind: komodo.KindStack, ID: "stack-1"},
		Status:    komodo.UpdateStatusInProgress,
		StartedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.PutUpdate(stuck))

	done := komodo.Update{
		ID:     "done-1",
		Target: komodo.ResourceTarget{Kind: komodo.KindStack, ID: "stack-1"},
		Status: komodo.UpdateStatusComplete,
	}
	require.NoError(t, db.PutUpdate(done))

	n, err := j.SweepOrphaned()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := db.GetUpdate("stuck-1")
	require.NoError(t, err)
	assert.Equal(t, komodo.UpdateStatusComplete, got.Status)
	assert.False(t, got.Success)
	require.NotEmpty(t, got.Logs)
	assert.Equal(t, RestartLog, got.Logs[len(got.Logs)-1].Stderr)

	untouched, err := db.GetUpdate("done-1")
	require.NoError(t, err)
	assert.Equal(t, komodo.UpdateStatusComplete, untouched.Status)
}

func TestSweepOrphanedNoneToSweep(t *testing.T) {
	j, _, _ := newTestJournal(t)
	n, err := j.SweepOrphaned()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func drainEvent(t *testing.T, sub events.Subscriber) {
	t.Helper()
	select {
	case <-sub:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for journal broadcast")
	}
}
