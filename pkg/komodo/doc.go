// Package komodo holds the core data model shared by every execution-plane
// component: resources (Deployment, Stack, Server, Procedure, Action),
// the Update journal record, action-state flag structs, and the closed
// Execution sum type dispatched by pkg/execute.
package komodo
