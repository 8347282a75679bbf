// Package gitpull performs a single-flight, hold-off-guarded git pull
// per working-copy path, running a fixed set-url/checkout/pull/reset/
// on_pull command sequence and sanitising access tokens and secrets
// out of every returned log. The single-flight cache keyed by
// working-copy path mirrors the subprocess-invocation style used
// elsewhere for shelling out to external CLIs.
package gitpull
