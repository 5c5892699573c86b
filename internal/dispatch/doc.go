// Package dispatch maps incoming command names to handlers against the host
// document and serializes results back into transport-safe responses.
//
// Commands are declared once as Spec values carrying the name, description,
// parameter schema, a typed parameter decoder, and the handler. The same
// values build the dispatch table and the list-functions catalog, so the
// introspection data cannot drift from the handlers.
//
// Dispatch never surfaces a failure to its caller: validation errors,
// precondition errors, handler errors, and handler panics are all captured
// at the dispatch boundary and encoded as error responses. Handlers are not
// transactional; partial mutations made before a failure stand.
package dispatch
