package sfcache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetComputesOnceWithinTTL(t *testing.T) {
	c := New[int]()
	var calls int32

	compute := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	}

	v1, err := c.Get("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v1)

	v2, err := c.Get("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetRecomputesAfterExpiry(t *testing.T) {
	c := New[int]()
	var calls int32
	compute := func() (int, error) {
		n := atomic.AddInt32(&calls, 1)
		return int(n), nil
	}

	v1, _ := c.Get("k", time.Millisecond, compute)
	time.Sleep(5 * time.Millisecond)
	v2, _ := c.Get("k", time.Millisecond, compute)

	assert.NotEqual(t, v1, v2)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGetCachesErrorsToo(t *testing.T) {
	c := New[int]()
	var calls int32
	wantErr := errors.New("boom")
	compute := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, wantErr
	}

	_, err1 := c.Get("k", time.Minute, compute)
	_, err2 := c.Get("k", time.Minute, compute)

	assert.Equal(t, wantErr, err1)
	assert.Equal(t, wantErr, err2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestConcurrentGetSingleFlightsOneCompute(t *testing.T) {
	c := New[int]()
	var calls int32
	release := make(chan struct{})
	compute := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get("shared", time.Minute, compute)
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
		}()
	}

	time.Sleep(20 * time.Millisecond) // let goroutines queue on the key mutex
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestInvalidateForcesRecompute(t *testing.T) {
	c := New[int]()
	var calls int32
	compute := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 1, nil
	}

	c.Get("k", time.Minute, compute)
	c.Invalidate("k")
	c.Get("k", time.Minute, compute)

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestInvalidateUnknownKeyIsNoop(t *testing.T) {
	c := New[int]()
	assert.NotPanics(t, func() { c.Invalidate("nope") })
}
