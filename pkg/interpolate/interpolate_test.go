package interpolate

import (
	"testing"

	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func varsFixture() []komodo.Variable {
	return []komodo.Variable{
		{Name: "REGION", Value: "us-east-1"},
		{Name: "DB_PASSWORD", Value: "hunter2", IsSecret: true},
	}
}

func TestExpandSubstitutesKnownTokens(t *testing.T) {
	i := New(varsFixture())
	out, err := i.Expand("region=[[REGION]] password=[[DB_PASSWORD]]")
	require.NoError(t, err)
	assert.Equal(t, "region=us-east-1 password=hunter2", out)
}

func TestExpandUnknownNameErrors(t *testing.T) {
	i := New(varsFixture())
	_, err := i.Expand("token=[[MISSING]]")
	assert.Error(t, err)
}

func TestExpandLeavesNonTokenTextUntouched(t *testing.T) {
	i := New(varsFixture())
	out, err := i.Expand("no tokens here")
	require.NoError(t, err)
	assert.Equal(t, "no tokens here", out)
}

func TestGlobalAndSecretReplacersAccumulate(t *testing.T) {
	i := New(varsFixture())
	_, err := i.Expand("[[REGION]] [[DB_PASSWORD]]")
	require.NoError(t, err)

	global := i.GlobalReplacers()
	require.Len(t, global, 2)

	secret := i.SecretReplacers()
	require.Len(t, secret, 1)
	assert.Equal(t, "hunter2", secret[0].Value)
}

func TestSanitizeRedactsValues(t *testing.T) {
	i := New(varsFixture())
	_, err := i.Expand("[[DB_PASSWORD]]")
	require.NoError(t, err)

	stdout := "connecting with password hunter2 to db"
	sanitized := Sanitize(stdout, i.SecretReplacers())
	assert.NotContains(t, sanitized, "hunter2")
	assert.Contains(t, sanitized, "[[DB_PASSWORD]]")
}

func TestSummaryLogNeverContainsSecretValue(t *testing.T) {
	i := New(varsFixture())
	_, err := i.Expand("[[REGION]] [[DB_PASSWORD]]")
	require.NoError(t, err)

	log := i.SummaryLog()
	assert.NotContains(t, log.Stdout, "hunter2")
	assert.Contains(t, log.Stdout, "REGION")
	assert.Contains(t, log.Stdout, "DB_PASSWORD")
	assert.True(t, log.Success)
}

func TestExpandSliceStopsAtFirstError(t *testing.T) {
	i := New(varsFixture())
	_, err := i.ExpandSlice([]string{"[[REGION]]", "[[NOPE]]"})
	assert.Error(t, err)
}

func TestSanitizeIgnoresEmptyValueReplacer(t *testing.T) {
	out := Sanitize("hello world", []Replacer{{Value: "", Placeholder: "<X>"}})
	assert.Equal(t, "hello world", out)
}
