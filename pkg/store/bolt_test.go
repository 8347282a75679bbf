package store

import (
	"testing"
	"time"

	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDeploymentCRUD(t *testing.T) {
	db := openTestDB(t)

	dep := komodo.Deployment{
		Envelope: komodo.Envelope{ID: "dep-1", Name: "api"},
		Config:   komodo.DeploymentConfig{Image: "nginx:latest"},
	}
	require.NoError(t, db.Deployments.Put(storedDeployment{dep}))

	got, err := db.Deployments.Get("dep-1")
	require.NoError(t, err)
	assert.Equal(t, "api", got.Name)
	assert.Equal(t, "nginx:latest", got.Config.Image)

	found, ok, err := db.DeploymentByName("api")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dep-1", found.ID)

	require.NoError(t, db.Deployments.Delete("dep-1"))
	_, err = db.Deployments.Get("dep-1")
	assert.Error(t, err)
	assert.IsType(t, &ErrNotFound{}, err)
}

func TestDeploymentByNameMissing(t *testing.T) {
	db := openTestDB(t)
	_, ok, err := db.DeploymentByName("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdatesByTargetOrdersNewestFirst(t *testing.T) {
	db := openTestDB(t)
	target := komodo.ResourceTarget{Kind: komodo.KindDeployment, ID: "dep-1"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"u1", "u2", "u3"} {
		u := komodo.Update{
			ID:        id,
			Target:    target,
			Operation: komodo.OperationDeployDeployment,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Updates.Put(storedUpdate{u}))
	}
	// an update against a different target must not leak into results
	require.NoError(t, db.Updates.Put(storedUpdate{komodo.Update{
		ID:        "other",
		Target:    komodo.ResourceTarget{Kind: komodo.KindDeployment, ID: "dep-2"},
		StartedAt: base,
	}}))

	got, err := db.UpdatesByTarget(komodo.KindDeployment, "dep-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "u3", got[0].ID)
	assert.Equal(t, "u2", got[1].ID)
	assert.Equal(t, "u1", got[2].ID)
}

func TestUpdatesByTargetRespectsLimit(t *testing.T) {
	db := openTestDB(t)
	target := komodo.ResourceTarget{Kind: komodo.KindStack, ID: "stack-1"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, db.Updates.Put(storedUpdate{komodo.Update{
			ID: id, Target: target, StartedAt: base.Add(time.Duration(i) * time.Hour),
		}}))
	}

	got, err := db.UpdatesByTarget(komodo.KindStack, "stack-1", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStatsPagePaginates(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < StatsPageSize+10; i++ {
		rec := komodo.StatsRecord{
			ServerID:  "srv-1",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Stats.Put(storedStats{rec}))
	}

	page0, err := db.StatsPage("srv-1", 0)
	require.NoError(t, err)
	assert.Len(t, page0, StatsPageSize)

	page1, err := db.StatsPage("srv-1", 1)
	require.NoError(t, err)
	assert.Len(t, page1, 10)

	page2, err := db.StatsPage("srv-1", 2)
	require.NoError(t, err)
	assert.Len(t, page2, 0)

	// newest sample should be first on page 0
	assert.True(t, page0[0].Timestamp.After(page0[1].Timestamp))
}

func TestCollectionFilterAndFind(t *testing.T) {
	db := openTestDB(t)
	for _, s := range []struct{ id, name string }{{"srv-1", "prod"}, {"srv-2", "staging"}} {
		require.NoError(t, db.Servers.Put(storedServer{komodo.Server{
			Envelope: komodo.Envelope{ID: s.id, Name: s.name},
		}}))
	}

	all, err := db.Servers.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, ok, err := db.Servers.Find(func(s storedServer) bool { return s.Name == "prod" })
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "srv-1", found.ID)
}
