package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text decodes from a JSON string or number. Prices and durations are sent
// either way depending on the endpoint.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

// Flag decodes booleans sent as true/false, 0/1 or "0"/"1".
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch v := strings.Trim(strings.TrimSpace(string(data)), `"`); v {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*f = n != 0
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Timestamps are assigned by the remote API and never sent back.
type Timestamps struct {
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
