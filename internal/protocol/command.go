package protocol

import (
	"encoding/json"
	"fmt"
)

// Command is a client-issued request naming an operation and its parameters.
// The raw wire object is retained so parameter structs can be decoded at the
// dispatch boundary without re-flattening.
type Command struct {
	ID     string
	Method string

	raw json.RawMessage
}

// reserved envelope keys that never belong to the parameter bag.
const (
	keyID     = "id"
	keyMethod = "method"
)

// DecodeCommand parses a wire payload into a Command. The payload must be a
// JSON object carrying string id and method keys; everything else is kept as
// the parameter bag.
func DecodeCommand(data []byte) (Command, error) {
	var envelope struct {
		ID     string `json:"id"`
		Method string `json:"method"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Command{}, fmt.Errorf("malformed command payload: %w", err)
	}
	if envelope.ID == "" {
		return Command{}, fmt.Errorf("command is missing an id")
	}
	if envelope.Method == "" {
		return Command{}, fmt.Errorf("command is missing a method")
	}

	raw := make(json.RawMessage, len(data))
	copy(raw, data)

	return Command{
		ID:     envelope.ID,
		Method: envelope.Method,
		raw:    raw,
	}, nil
}

// NewCommand builds a Command from already-typed parameters, for in-process
// use (tests, the automation client). params may be nil for commands that
// take no arguments.
func NewCommand(id, method string, params any) (Command, error) {
	data, err := EncodeCommand(id, method, params)
	if err != nil {
		return Command{}, err
	}
	return DecodeCommand(data)
}

// EncodeCommand serializes a command to its wire form, flattening params into
// the top-level object. params must marshal to a JSON object (or be nil).
func EncodeCommand(id, method string, params any) ([]byte, error) {
	flat := map[string]json.RawMessage{}
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		if err := json.Unmarshal(encoded, &flat); err != nil {
			return nil, fmt.Errorf("params must encode to a JSON object: %w", err)
		}
	}
	for _, reserved := range []string{keyID, keyMethod} {
		if _, clash := flat[reserved]; clash {
			return nil, fmt.Errorf("params may not carry reserved key %q", reserved)
		}
	}

	idRaw, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	methodRaw, err := json.Marshal(method)
	if err != nil {
		return nil, err
	}
	flat[keyID] = idRaw
	flat[keyMethod] = methodRaw

	return json.Marshal(flat)
}

// DecodeParams unmarshals the parameter bag into a typed struct. The id and
// method keys are simply not bound, so any struct without those fields sees
// only its parameters.
func (c Command) DecodeParams(v any) error {
	raw := c.raw
	if raw == nil {
		raw = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid parameters for %s: %w", c.Method, err)
	}
	return nil
}

// Wire returns the command's wire-form JSON.
func (c Command) Wire() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	return EncodeCommand(c.ID, c.Method, nil)
}
