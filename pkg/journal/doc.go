// Package journal is the durable record of every operation-producing
// handler's lifecycle, persisted via pkg/store and broadcast via
// pkg/events following a make/add/append/finalize sequence: persist
// first, publish second, matching the persist-then-publish order used
// elsewhere for commits against the document store.
package journal
