// Package interpolate performs `[[name]]` token substitution into
// config text slots, producing sanitising replacer sets alongside the
// expanded text so sensitive values can be scrubbed from logs after
// the fact. Built on Go's regexp package plus ordered replacer slices.
package interpolate
