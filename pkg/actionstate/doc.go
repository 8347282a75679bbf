// Package actionstate is a per-resource-kind concurrent map of
// busy-flag cells, with scoped Guards that unset exactly the flags
// they set on release, built on the familiar Go "guard object released
// via defer" pattern (defer cancel(), defer conn.Close()).
//
// Flags are tracked as a bitmask rather than via reflection over the
// named-bool-field structs in pkg/komodo (DeploymentActionState and
// friends) — bit membership answers "was any flag the mutator wants to
// set already held" in O(1) without walking struct fields at runtime.
// Each resource kind's bits convert to its pkg/komodo flag struct via a
// small hand-written mapping, so API responses still see
// the named fields the data model describes.
package actionstate
