// Package protocol defines the command/response envelopes carried between
// the external client, the bridge relay, and the execution context.
//
// Wire format is one JSON object per message. Requests flatten their
// parameters into the top-level object alongside the id and method keys:
//
//	{"id": "1", "method": "create-rectangle", "x": 10, "y": 20}
//
// Responses carry exactly one of result or error:
//
//	{"id": "1", "result": {...}}
//	{"id": "1", "error": {"message": "..."}}
//
// The hop between the execution-context transport and the embedded
// dispatcher wraps either payload in a pluginMessage envelope; inbound
// messages without that key are ignored.
package protocol
