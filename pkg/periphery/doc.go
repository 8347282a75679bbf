// Package periphery is a typed HTTP+JSON client keyed by server
// address and shared secret, with per-call deadlines and transport
// error classification: one connection wrapper, one
// context.WithTimeout per method, authenticated with a bearer shared
// secret over net/http POST.
package periphery
