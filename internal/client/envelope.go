package client

import (
	"bytes"
	"encoding/json"
)

// The backend's envelope habits are inconsistent: most endpoints wrap the
// payload as {"success":..,"message":..,"data":T}, some wrap twice, and a
// few return T bare. Normalize resolves every shape to T at the transport
// boundary so no caller ever re-derives shape-sniffing logic.

// Normalize extracts the real payload from a response body.
//
//   - body has a "data" field that is itself an object carrying both
//     "message" and "data" keys → the inner "data".
//   - body has a "data" field → that value as-is.
//   - otherwise → body itself.
//
// A nil, empty, or null result yields fallback instead. Normalize never
// fails: malformed input falls through to the body-itself branch, and
// normalizing an already-bare payload returns it unchanged.
func Normalize(body, fallback json.RawMessage) json.RawMessage {
	out := normalize(body)
	if isEmptyJSON(out) {
		return fallback
	}
	return out
}

func normalize(body json.RawMessage) json.RawMessage {
	if isEmptyJSON(body) {
		return nil
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		// Bare non-object payload (array, string, number).
		return body
	}

	data, ok := outer["data"]
	if !ok || isEmptyJSON(data) {
		return body
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal(data, &inner); err == nil {
		_, hasMessage := inner["message"]
		innerData, hasData := inner["data"]
		if hasMessage && hasData {
			return innerData
		}
	}
	return data
}

// Message extracts the human-readable "message" field from an envelope, or
// returns "" when there is none.
func Message(body json.RawMessage) string {
	var outer struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &outer); err != nil {
		return ""
	}
	return outer.Message
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
