package protocol

import "encoding/json"

// Envelope is the host-messaging wrapper exchanged between the execution
// context's socket surface and the embedded dispatcher. Only the
// pluginMessage key is meaningful; messages without it are ignored.
type Envelope struct {
	PluginMessage json.RawMessage `json:"pluginMessage,omitempty"`
}

// Wrap places a payload inside a pluginMessage envelope.
func Wrap(payload json.RawMessage) Envelope {
	return Envelope{PluginMessage: payload}
}

// Unwrap returns the wrapped payload and whether the envelope carried one.
func (e Envelope) Unwrap() (json.RawMessage, bool) {
	if len(e.PluginMessage) == 0 {
		return nil, false
	}
	return e.PluginMessage, true
}
