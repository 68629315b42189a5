package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LooseNumber is a numeric wire value that may arrive as a JSON number or as
// a string. Decoding never fails: anything that is not a finite number
// decodes to the empty value.
type LooseNumber struct {
	text string
}

// NumberFromString returns a LooseNumber for s, or the empty value when s is
// not a finite number.
func NumberFromString(s string) LooseNumber {
	s = strings.TrimSpace(s)
	if !isFiniteNumber(s) {
		return LooseNumber{}
	}
	return LooseNumber{text: s}
}

// NumberFromFloat returns a LooseNumber holding v.
func NumberFromFloat(v float64) LooseNumber {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return LooseNumber{}
	}
	return LooseNumber{text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// String returns the display form, "" when absent.
func (n LooseNumber) String() string { return n.text }

// Valid reports whether a number was present.
func (n LooseNumber) Valid() bool { return n.text != "" }

// Float64 returns the numeric value.
func (n LooseNumber) Float64() (float64, bool) {
	if n.text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(n.text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int64 returns the value when it is an integer.
func (n LooseNumber) Int64() (int64, bool) {
	if n.text == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(n.text, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NumberFromInt returns a LooseNumber holding v.
func NumberFromInt(v int64) LooseNumber {
	return LooseNumber{text: strconv.FormatInt(v, 10)}
}

func (n *LooseNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	n.text = ""
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*n = NumberFromString(s)
		return nil
	}
	*n = NumberFromString(string(b))
	return nil
}

func (n LooseNumber) MarshalJSON() ([]byte, error) {
	if n.text == "" {
		return []byte("null"), nil
	}
	return []byte(n.text), nil
}

func isFiniteNumber(s string) bool {
	if s == "" {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LooseBool accepts true/false, 0/1 and their string forms.
type LooseBool bool

func (b *LooseBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*b = false
			return nil
		}
		raw = s
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		*b = true
	default:
		*b = false
	}
	return nil
}

func (b LooseBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// OpaqueText is a free-text field that some records store as a JSON
// document instead of a string. Strings are kept verbatim; any other JSON
// value is kept as its compact encoding.
type OpaqueText string

func (t *OpaqueText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = OpaqueText(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = OpaqueText(buf.String())
	return nil
}

// LooseString is a text wire value. Strings decode as-is, numbers and
// booleans keep their JSON text, and anything else decodes to "".
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = ""
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err == nil {
			*s = LooseString(v)
		}
	case '{', '[', 'n':
	default:
		*s = LooseString(data)
	}
	return nil
}

// StringList decodes either a JSON array or a comma-separated string into a
// list of trimmed, non-empty strings. Non-string array elements are skipped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = nil
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*l = SplitList(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*l = out
	}
	return nil
}

// SplitList splits a comma-separated string, trimming whitespace and
// discarding empty entries. The result is never nil.
func SplitList(s string) []string {
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList is the display form of a list, the inverse of SplitList.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
