package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexFloat is a float64 that decodes from a JSON number, a numeric string or null.
// The CFB proxy is inconsistent about quoting PPA values, so every numeric feed field uses it.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexFloat(parseFloat(s))
		return nil
	}

	if data[0] == 't' || data[0] == 'f' {
		// booleans have been seen in place of 0/1 flags
		if data[0] == 't' {
			*f = 1
		} else {
			*f = 0
		}
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(finite(v))
	return nil
}

// Float returns the value as float64
func (f FlexFloat) Float() float64 {
	return float64(f)
}

// FlexInt is an int that decodes from a JSON number, a numeric string or null.
// Fractional numbers are truncated.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = FlexInt(int(f))
	return nil
}

// Int returns the value as int
func (i FlexInt) Int() int {
	return int(i)
}

// OptionalFloat is a FlexFloat that remembers whether the field was present at all.
// Used for play EPA/PPA, where "absent" and "zero" mean different things.
type OptionalFloat struct {
	Value FlexFloat
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		o.Value, o.Valid = 0, false
		return nil
	}
	if err := o.Value.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler
func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(float64(o.Value))
}

// Some returns a present OptionalFloat
func Some(v float64) OptionalFloat {
	return OptionalFloat{Value: FlexFloat(v), Valid: true}
}

// parseFloat parses a numeric string, tolerating whitespace and a leading "+"
func parseFloat(s string) float64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if s == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return finite(v)
}

// finite maps NaN and ±Inf to 0 so decoded documents always re-encode
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FlexString is a string that also decodes from a JSON number (game and play IDs)
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = FlexString(n.String())
	}
	return nil
}
