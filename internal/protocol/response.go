package protocol

import (
	"encoding/json"
	"fmt"
)

// ErrorDetail carries the human-readable failure message of an error
// Response.
type ErrorDetail struct {
	Message string `json:"message"`
}

// Response is the dispatcher's reply to a Command, correlated by ID. Exactly
// one of Result and Err is set.
type Response struct {
	ID     string
	Result any
	Err    *ErrorDetail
}

// NewResult builds a success Response. A nil result is legal and marshals as
// an explicit null so the result key is always present.
func NewResult(id string, result any) Response {
	return Response{ID: id, Result: result}
}

// NewError builds an error Response.
func NewError(id, message string) Response {
	return Response{ID: id, Err: &ErrorDetail{Message: message}}
}

// IsError reports whether the response carries an error.
func (r Response) IsError() bool {
	return r.Err != nil
}

// MarshalJSON enforces the result-xor-error wire shape.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			ID    string      `json:"id"`
			Error ErrorDetail `json:"error"`
		}{ID: r.ID, Error: *r.Err})
	}
	return json.Marshal(struct {
		ID     string `json:"id"`
		Result any    `json:"result"`
	}{ID: r.ID, Result: r.Result})
}

// DecodeResponse parses a wire payload into a Response, rejecting payloads
// that carry both or neither of result/error.
func DecodeResponse(data []byte) (Response, error) {
	var probe struct {
		ID     string           `json:"id"`
		Result *json.RawMessage `json:"result"`
		Error  *ErrorDetail     `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Response{}, fmt.Errorf("malformed response payload: %w", err)
	}
	if probe.ID == "" {
		return Response{}, fmt.Errorf("response is missing an id")
	}
	// A top-level "result": null still counts as present; re-probe key
	// existence to tell null apart from absent.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return Response{}, fmt.Errorf("malformed response payload: %w", err)
	}
	_, hasResult := keys["result"]
	_, hasError := keys["error"]
	if hasResult == hasError {
		return Response{}, fmt.Errorf("response must carry exactly one of result or error")
	}

	if hasError {
		if probe.Error == nil {
			return Response{}, fmt.Errorf("response error must be an object with a message")
		}
		return NewError(probe.ID, probe.Error.Message), nil
	}

	var result any
	if probe.Result != nil {
		if err := json.Unmarshal(*probe.Result, &result); err != nil {
			return Response{}, fmt.Errorf("malformed response result: %w", err)
		}
	}
	return NewResult(probe.ID, result), nil
}
