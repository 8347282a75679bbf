package events

import (
	"testing"
	"time"

	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerPublishDeliversToSubscribers(t *testing.T) {
	b := NewBroker()
	b.Start()
	defer b.Stop()

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	b.Publish(&UpdateEvent{
		UpdateID: "u1",
		Target:   komodo.ResourceTarget{Kind: komodo.KindDeployment, ID: "dep-1"},
		Status:   komodo.UpdateStatusInProgress,
	})

	select {
	case evt := <-sub:
		require.NotNil(t, evt)
		assert.Equal(t, "u1", evt.UpdateID)
		assert.False(t, evt.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBrokerSubscriberCount(t *testing.T) {
	b := NewBroker()
	b.Start()
	defer b.Stop()

	assert.Equal(t, 0, b.SubscriberCount())

	sub1 := b.Subscribe()
	sub2 := b.Subscribe()
	assert.Equal(t, 2, b.SubscriberCount())

	b.Unsubscribe(sub1)
	assert.Equal(t, 1, b.SubscriberCount())

	b.Unsubscribe(sub2)
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestBrokerPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker()
	b.Start()
	defer b.Stop()

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	// flood well past the per-subscriber buffer of 50; Publish must never
	// block the caller even though nothing is draining sub.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			b.Publish(&UpdateEvent{UpdateID: "flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked under a full subscriber buffer")
	}
}

func TestBrokerUnsubscribeIsIdempotent(t *testing.T) {
	b := NewBroker()
	b.Start()
	defer b.Stop()

	sub := b.Subscribe()
	b.Unsubscribe(sub)
	assert.NotPanics(t, func() { b.Unsubscribe(sub) })
}

func TestBrokerStopStopsDelivery(t *testing.T) {
	b := NewBroker()
	b.Start()
	sub := b.Subscribe()
	b.Stop()

	// Publish after Stop must not block, and must not panic even though
	// the run loop has exited.
	done := make(chan struct{})
	go func() {
		b.Publish(&UpdateEvent{UpdateID: "after-stop"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after Stop")
	}
	_ = sub
}
