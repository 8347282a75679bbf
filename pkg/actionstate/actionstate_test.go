package actionstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellUpdateAndRelease(t *testing.T) {
	c := &Cell{}

	guard, err := c.Update(DeploymentDeploying)
	require.NoError(t, err)
	assert.True(t, c.Snapshot().Has(DeploymentDeploying))

	guard.Release()
	assert.False(t, c.Snapshot().Has(DeploymentDeploying))
}

func TestCellUpdateBusyOnOverlap(t *testing.T) {
	c := &Cell{}

	guard, err := c.Update(DeploymentDeploying)
	require.NoError(t, err)
	defer guard.Release()

	_, err = c.Update(DeploymentDeploying)
	require.Error(t, err)
	var busy *ErrBusy
	require.ErrorAs(t, err, &busy)
}

func TestCellUpdateNonOverlappingFlagsBothSucceed(t *testing.T) {
	c := &Cell{}

	g1, err := c.Update(DeploymentDeploying)
	require.NoError(t, err)
	defer g1.Release()

	g2, err := c.Update(DeploymentPulling)
	require.NoError(t, err)
	defer g2.Release()

	snap := c.Snapshot()
	assert.True(t, snap.Has(DeploymentDeploying))
	assert.True(t, snap.Has(DeploymentPulling))
}

func TestGuardReleaseIsIdempotent(t *testing.T) {
	c := &Cell{}
	guard, err := c.Update(DeploymentDeploying)
	require.NoError(t, err)

	guard.Release()
	assert.NotPanics(t, func() { guard.Release() })
	assert.False(t, c.Snapshot().Has(DeploymentDeploying))
}

func TestRegistryGetOrInsertReusesCell(t *testing.T) {
	r := NewRegistry()
	c1 := r.GetOrInsert("dep-1")
	c2 := r.GetOrInsert("dep-1")
	assert.Same(t, c1, c2)

	c3 := r.GetOrInsert("dep-2")
	assert.NotSame(t, c1, c3)
}

func TestRegistrySnapshotOfUntouchedIDIsEmpty(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, Flags(0), r.Snapshot("never-seen"))
}

func TestDeploymentStateConversion(t *testing.T) {
	f := DeploymentDeploying | DeploymentStopping
	state := DeploymentState(f)
	assert.True(t, state.Deploying)
	assert.True(t, state.Stopping)
	assert.False(t, state.Pulling)
	assert.True(t, state.Busy())
}

func TestGuardReleaseOnPanicViaDefer(t *testing.T) {
	c := &Cell{}

	func() {
		guard, err := c.Update(StackDeploying)
		require.NoError(t, err)
		defer guard.Release()

		defer func() { recover() }()
		panic("boom")
	}()

	assert.False(t, c.Snapshot().Has(StackDeploying))
}
