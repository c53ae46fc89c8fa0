package snapshot

import (
	"bytes"
	"encoding/json"
)

// Envelope is a parsed but not yet migrated document.
type Envelope struct {
	Version int
	Fields  map[string]json.RawMessage
}

// Parse fails closed: empty input, malformed JSON, a non-object payload or a
// missing or null run all yield nil.
func Parse(raw []byte) *Envelope {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}
	if r, ok := fields["run"]; !ok || isNull(r) {
		return nil
	}
	env := &Envelope{Fields: fields}
	decodeField(fields, "version", &env.Version)
	return env
}

// decodeField decodes key into dst; a bad value leaves dst untouched.
func decodeField(fields map[string]json.RawMessage, key string, dst any) bool {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
