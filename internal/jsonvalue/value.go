// Package jsonvalue provides the generic dynamic-value tree that
// spec.md §1 assumes as an external collaborator ("the raw JSON parser
// ... assumed to provide a generic dynamic-value tree with the usual
// accessors"). No example in the retrieval pack imports a third-party
// dynamic-JSON library directly (github.com/segmentio/encoding appears
// only as an indirect dependency pulled in by an MCP SDK, never
// imported by application code), so this stays on encoding/json plus a
// thin wrapper rather than fabricate a grounding that isn't there.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags the dynamic type of a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// Value is a schema-less JSON node. Object preserves source key order,
// which matters for exports/imports condition priority (spec.md §4.2).
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Arr    []Value
	// ObjKeys/ObjVals are parallel slices preserving declaration order;
	// Object is never represented as a Go map for this reason.
	ObjKeys []string
	ObjVals []Value
}

func (v Value) Prop(name string) (Value, bool) {
	if v.Kind != Object {
		return Value{}, false
	}
	for i, k := range v.ObjKeys {
		if k == name {
			return v.ObjVals[i], true
		}
	}
	return Value{}, false
}

func (v Value) AsString() (string, bool) {
	if v.Kind != String {
		return "", false
	}
	return v.Str, true
}

func (v Value) AsBool() (bool, bool) {
	if v.Kind != Bool {
		return false, false
	}
	return v.Bool, true
}

func (v Value) IsNull() bool { return v.Kind == Null }

// Parse decodes strict JSON (package.json), preserving object key order
// by walking tokens instead of decoding into a Go map.
func Parse(contents string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(contents))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// ParseJSONC decodes JSON with "//" and "/* */" comments and trailing
// commas stripped first (tsconfig.json is not valid JSON, as the
// teacher's tsconfig_json.go notes: "Unfortunately tsconfig.json isn't
// actually JSON").
func ParseJSONC(contents string) (Value, error) {
	return Parse(StripJSONC(contents))
}

// StripJSONC removes "//" line comments, "/* */" block comments, and
// trailing commas before object/array close delimiters, leaving strict
// JSON behind. Comment markers inside string literals are left alone.
func StripJSONC(contents string) string {
	var out strings.Builder
	out.Grow(len(contents))

	inString := false
	escaped := false
	for i := 0; i < len(contents); i++ {
		c := contents[i]

		if inString {
			out.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			out.WriteByte(c)
			continue
		}

		if c == '/' && i+1 < len(contents) && contents[i+1] == '/' {
			for i < len(contents) && contents[i] != '\n' {
				i++
			}
			out.WriteByte('\n')
			continue
		}

		if c == '/' && i+1 < len(contents) && contents[i+1] == '*' {
			i += 2
			for i+1 < len(contents) && !(contents[i] == '*' && contents[i+1] == '/') {
				i++
			}
			i++ // land on the '/'
			continue
		}

		out.WriteByte(c)
	}

	return stripTrailingCommas(out.String())
}

// stripTrailingCommas removes a comma that appears (ignoring whitespace)
// immediately before a closing "}" or "]", which encoding/json otherwise
// rejects outright.
func stripTrailingCommas(contents string) string {
	var out strings.Builder
	out.Grow(len(contents))

	inString := false
	escaped := false
	pendingComma := -1
	for i := 0; i < len(contents); i++ {
		c := contents[i]

		if inString {
			out.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			pendingComma = -1
			out.WriteByte(c)
		case c == ',':
			pendingComma = out.Len()
			out.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			out.WriteByte(c)
		case c == '}' || c == ']':
			if pendingComma >= 0 {
				s := out.String()
				out.Reset()
				out.WriteString(s[:pendingComma])
				out.WriteString(s[pendingComma+1:])
			}
			pendingComma = -1
			out.WriteByte(c)
		default:
			pendingComma = -1
			out.WriteByte(c)
		}
	}

	return out.String()
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			out := Value{Kind: Object}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, _ := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				out.ObjKeys = append(out.ObjKeys, key)
				out.ObjVals = append(out.ObjVals, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return out, nil
		case '[':
			out := Value{Kind: Array}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				out.Arr = append(out.Arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return out, nil
		}
	case nil:
		return Value{Kind: Null}, nil
	case bool:
		return Value{Kind: Bool, Bool: t}, nil
	case json.Number:
		f, _ := t.Float64()
		return Value{Kind: Number, Number: f}, nil
	case string:
		return Value{Kind: String, Str: t}, nil
	}
	return Value{Kind: Null}, nil
}

func TypeName(k Kind) string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return fmt.Sprintf("kind(%d)", k)
}
