/*
Package events is Komodo's in-process Update broadcast bus.

It is a non-blocking pub/sub broker, structurally identical to the
cluster event broker this was adapted from, but the payload is an
UpdateEvent carrying incremental Update journal state rather than a
generic cluster Event.

	Publisher (pkg/journal) → eventCh (buffer 100) → broadcast loop
	                                                       │
	                               ┌───────────────────────┼───────────────────────┐
	                               ▼                       ▼                       ▼
	                        Subscriber (buf 50)     Subscriber (buf 50)     Subscriber (buf 50)

Publish never blocks the caller: a full subscriber buffer just drops
that subscriber's copy of the event. Subscribers opt into exactly that
tradeoff — this bus serves live tailing (e.g. an in-progress Update's
log stream), not an audit trail; the Update itself, not this bus, is
the durable record.
*/
package events
