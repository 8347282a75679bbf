// Package store is the control plane's document database layer: one
// bbolt bucket per collection, records marshaled to JSON and keyed by
// id. Rather than hand-writing a full CRUD method set per bucket, the
// shape is generalized with a generic Collection[T], since every
// resource/journal collection needs the identical operations
// (Put/Get/List/Delete/Find/Filter, plus the generic GetByName helper
// in queries.go). Stats records use a composite key; Updates are keyed
// by id.
package store
