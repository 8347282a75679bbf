// Package procrun runs the two composite Execution kinds that don't
// resolve to a single Periphery call: Procedure (an ordered list of
// stages, each a set of Executions run concurrently) and Action (a user
// script evaluated in an embedded JavaScript sandbox with a Core API
// bound in that reads resources and can dispatch Executions).
//
// Both producers open their own Update through the same journal
// protocol every other execution handler uses and acquire their
// resource's action-state guard before starting. Procedures dispatch
// their child Executions back through the injected Dispatch callback,
// so pkg/execute's Dispatcher and this package depend on each other
// only through that function value, never through an import cycle.
package procrun
