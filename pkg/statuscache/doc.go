// Package statuscache is the per-server Status Cache: a background
// poller that keeps one komodo.ServerInfo snapshot per enabled server
// up to date, backed by two short-TTL single-flight caches
// (SystemInformation, SystemProcesses) so concurrent API reads never
// trigger duplicate Periphery calls. The poll loop's sync-then-spawn-
// per-key shape and its ticker-with-stop-channel lifecycle follow the
// same pattern used for node/container reconciliation and per-task
// health-check monitoring elsewhere: a slow outer tick reconciles which
// servers should have a poller running, and each poller is an
// independent goroutine canceled when its server disappears or is
// disabled.
package statuscache
