// Package document is the host document API the dispatcher operates on: an
// in-memory scene of typed nodes, paint styles, a selection, and a viewport.
//
// Handlers never reach into global state; they receive an explicit *Context.
// Node capabilities (position, size, paints, strokes, effects, children,
// layout) are expressed as interfaces so callers probe a node once with a
// type assertion instead of ad hoc attribute checks.
package document
