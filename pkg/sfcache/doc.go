// Package sfcache is a generic single-flight, short-TTL cache: one
// mutex per key guarding a (value, error, expiry) tuple, so concurrent
// callers for the same key collapse onto a single in-flight compute
// and share its result (success or error) until the entry expires.
// pkg/gitpull's pull hold-off and pkg/statuscache's SystemInformation/
// SystemProcesses caches are both instances of this one generic type.
package sfcache
