package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexNumber holds the raw text of a numeric field. Clients send age and rank
// either as JSON numbers or as quoted strings (form widgets serialize
// everything as text); both are accepted here and parsing into an integer is
// left to request validation so bad input surfaces as a user error instead of
// a decode failure.
type FlexNumber string

// UnmarshalJSON accepts `38`, `"38"` and `null`.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	// Quoted value: keep the text as-is
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("flex number: %w", err)
		}
		*n = FlexNumber(s)
		return nil
	}

	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return fmt.Errorf("flex number: expected number or string, got %s", string(data))
	}
	*n = FlexNumber(num.String())
	return nil
}

// MarshalJSON writes the value back as a JSON string.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// String returns the trimmed text.
func (n FlexNumber) String() string {
	return strings.TrimSpace(string(n))
}
