package remote

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/validation"
)

// Envelope is the JSON wrapper returned by every endpoint.
type Envelope struct {
	Success *bool               `json:"success,omitempty"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Failed reports an explicit success=false.
func (e Envelope) Failed() bool {
	return e.Success != nil && !*e.Success
}

// HasData reports whether a non-null data member was sent.
func (e Envelope) HasData() bool {
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// decodeEnvelope parses body leniently: message may be any JSON scalar and
// errors may map to a string or a list.
func decodeEnvelope(body []byte) (Envelope, error) {
	var raw struct {
		Success json.RawMessage            `json:"success"`
		Data    json.RawMessage            `json:"data"`
		Message json.RawMessage            `json:"message"`
		Errors  map[string]json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Envelope{}, err
	}
	env := Envelope{Data: raw.Data, Message: scalar(raw.Message)}
	if ok, set := truthy(raw.Success); set {
		env.Success = &ok
	}
	if len(raw.Errors) > 0 {
		env.Errors = make(map[string][]string, len(raw.Errors))
		for key, value := range raw.Errors {
			var list []string
			if err := json.Unmarshal(value, &list); err == nil {
				env.Errors[key] = list
				continue
			}
			if s := scalar(value); s != "" {
				env.Errors[key] = []string{s}
			}
		}
	}
	return env, nil
}

func scalar(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(trimmed)
}

func truthy(raw json.RawMessage) (value bool, set bool) {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null":
		return false, false
	case "true", `"true"`:
		return true, true
	case "false", `"false"`:
		return false, true
	}
	if n, err := strconv.ParseFloat(strings.Trim(trimmed, `"`), 64); err == nil {
		return n != 0, true
	}
	return false, false
}

// checkEnvelope applies the envelope rules to a decoded 2xx answer.
func checkEnvelope(status int, body []byte, shape validation.Shape) (Envelope, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return Envelope{}, malformed(status, "body is not a JSON envelope", err)
	}
	if env.Failed() {
		return env, rejection(status, env.Message, env.Errors)
	}
	if err := validation.ValidateEnvelope(shape, body); err != nil {
		return env, malformed(status, err.Error(), err)
	}
	return env, nil
}
