// Package execute is the Execution Dispatcher: the single entry point
// that turns one komodo.Execution value into a persisted, broadcast
// komodo.Update. Every Execution variant is routed through the same
// shape — resolve target and server, acquire an
// action-state guard where the variant has one, open the Update,
// interpolate if the variant carries config, invoke the Periphery
// Transport (or delegate to pkg/stackctl or pkg/procrun for variants
// that already own their own guard/journal flow), finalize.
//
// Batch fans a single glob/tag pattern out to the matching resources of
// one underlying variant, dispatching each concurrently under a bounded
// worker pool and collecting a BatchExecutionResponse in deterministic,
// resolved-name order.
package execute
