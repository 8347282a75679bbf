// Package stackctl is the Resource Compose Orchestrator: it resolves a
// Stack and its pinned Server, guards the operation behind the stack's
// action-state cell, interpolates variables and secrets into the
// compose file contents and environment before sending them to
// Periphery, and drives the Update journal across the call. Deploy,
// DeployIfChanged, Pull, Start, Restart, Pause, Unpause, Stop, and
// Destroy each follow the same acquire-guard / journal / call-Periphery
// / finalize shape, differing only in which action-state flag they set
// and which Periphery compose verb they call; Deploy alone also writes
// the stack's Info back to the store.
package stackctl
