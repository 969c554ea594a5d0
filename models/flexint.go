package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt is an integer field that the store may hold either as a JSON number
// or as a numeric string. Valid is false when the field was absent, null, or
// did not parse.
type FlexInt struct {
	Int   int64
	Valid bool
}

// NewFlexInt returns a valid FlexInt holding v.
func NewFlexInt(v int64) FlexInt {
	return FlexInt{Int: v, Valid: true}
}

// ParseFlexInt converts a decoded JSON value into a FlexInt.
// Numbers are truncated toward zero; strings are parsed as base-10 integers
// with the leading numeric prefix honoured ("12px" parses as 12).
func ParseFlexInt(v any) FlexInt {
	switch t := v.(type) {
	case float64:
		return NewFlexInt(int64(t))
	case int:
		return NewFlexInt(int64(t))
	case int64:
		return NewFlexInt(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return NewFlexInt(i)
		}
		if f, err := t.Float64(); err == nil {
			return NewFlexInt(int64(f))
		}
	case string:
		return parseIntPrefix(t)
	}
	return FlexInt{}
}

func parseIntPrefix(s string) FlexInt {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c == '-' || c == '+') && end == 0 {
			end++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		end++
	}
	i, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return FlexInt{}
	}
	return NewFlexInt(i)
}

// UnmarshalJSON accepts a number, a numeric string, or null.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*f = ParseFlexInt(v)
	return nil
}

// MarshalJSON writes the integer, or null when the value is not valid.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(f.Int, 10)), nil
}

// Get returns the value and whether it is valid.
func (f FlexInt) Get() (int64, bool) {
	return f.Int, f.Valid
}
