package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type shape int

const (
	shapeInvalid shape = iota
	shapeObject
	shapeArray
	shapeString
	shapeNumber
	shapeBool
	shapeNull
)

// shapeOf classifies an already well-formed JSON value by its first byte.
func shapeOf(raw json.RawMessage) shape {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return shapeInvalid
	}
	switch c := b[0]; {
	case c == '{':
		return shapeObject
	case c == '[':
		return shapeArray
	case c == '"':
		return shapeString
	case c == 't' || c == 'f':
		return shapeBool
	case c == 'n':
		return shapeNull
	case c == '-' || (c >= '0' && c <= '9'):
		return shapeNumber
	}
	return shapeInvalid
}

// member is one key of a JSON object in document order.
type member struct {
	key   string
	value json.RawMessage
}

// decodeMembers reads an object keeping key order. A repeated key stays at
// its first position and takes the last value.
func decodeMembers(raw json.RawMessage) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not an object")
	}

	var out []member
	pos := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if i, seen := pos[key]; seen {
			out[i].value = v
			continue
		}
		pos[key] = len(out)
		out = append(out, member{key: key, value: v})
	}
	return out, nil
}

// object is a decoded top-level payload. Keys holding null count as absent.
type object map[string]json.RawMessage

func decodeObject(raw json.RawMessage) (object, bool) {
	if shapeOf(raw) != shapeObject {
		return nil, false
	}
	var m object
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

func (o object) get(key string) (json.RawMessage, bool) {
	v, ok := o[key]
	if !ok || shapeOf(v) == shapeNull {
		return nil, false
	}
	return v, true
}

// decodeStrings reads an array of strings, recording one field error per
// offending element under path.
func decodeStrings(raw json.RawMessage, path string, e *Error) []string {
	if shapeOf(raw) != shapeArray {
		e.Add(path, "must be an array of strings")
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		e.Add(path, "must be an array of strings")
		return nil
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := decodeString(it)
		if !ok {
			e.Add(fmt.Sprintf("%s[%d]", path, i), "must be a string")
			continue
		}
		out = append(out, s)
	}
	return out
}

func decodeString(raw json.RawMessage) (string, bool) {
	if shapeOf(raw) != shapeString {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeNumber accepts a JSON number or a string holding one.
func decodeNumber(raw json.RawMessage) (float64, bool) {
	switch shapeOf(raw) {
	case shapeNumber:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, false
		}
		return f, true
	case shapeString:
		s, _ := decodeString(raw)
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// specText turns a spec value into its display text. Objects and arrays
// have no text form.
func specText(raw json.RawMessage) (string, bool) {
	switch shapeOf(raw) {
	case shapeString:
		return decodeString(raw)
	case shapeNumber:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	case shapeBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	case shapeNull:
		return "", true
	}
	return "", false
}
