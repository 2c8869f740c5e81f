package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/kaptinlin/jsonrepair"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultMaxDepth is the deepest container nesting Parse accepts. It matches
// the limit encoding/json enforces.
const DefaultMaxDepth = 10000

// ParseError reports JSON text that could not be parsed.
type ParseError struct {
	Offset int64  // byte offset of the failure, -1 when unknown
	Msg    string // parser diagnostic
	Err    error  // underlying parser error, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid JSON at offset %d: %s", e.Offset, e.Msg)
	}
	return "invalid JSON: " + e.Msg
}

// Unwrap returns the underlying parser error.
func (e *ParseError) Unwrap() error { return e.Err }

// Parser converts JSON text into a [Value] tree.
type Parser struct {
	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// Repair retries malformed input after passing it through [Repair].
	// The original diagnostic is returned when repair also fails.
	Repair bool
}

// Parse parses data with the default Parser.
func Parse(data []byte) (*Value, error) {
	return Parser{}.Parse(data)
}

// Parse parses a single JSON document. Leading and trailing whitespace is
// allowed; anything else after the document is an error.
func (p Parser) Parse(data []byte) (*Value, error) {
	v, err := p.parse(data)
	if err == nil || !p.Repair {
		return v, err
	}
	repaired, rerr := Repair(data)
	if rerr != nil {
		return nil, err
	}
	if v, rerr := p.parse(repaired); rerr == nil {
		return v, nil
	}
	return nil, err
}

func (p Parser) parse(data []byte) (*Value, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	data = replaceLoneSurrogates(data)
	raw, vt, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, &ParseError{Offset: -1, Msg: err.Error(), Err: err}
	}

	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	b := treeBuilder{maxDepth: maxDepth}
	return b.build(raw, vt, 0)
}

// validate runs the strict encoding/json scanner over data. jsonparser is
// lenient about some malformed input, so it only ever sees validated text.
func validate(data []byte) error {
	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err == nil {
		return nil
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &ParseError{Offset: se.Offset, Msg: se.Error(), Err: err}
	}
	return &ParseError{Offset: -1, Msg: err.Error(), Err: err}
}

// replaceLoneSurrogates rewrites \uXXXX escapes of unpaired UTF-16
// surrogates to \ufffd, which is what encoding/json decodes them to.
// jsonparser rejects them in both keys and values. The replacement has the
// same length, so byte offsets are unchanged. data must be valid JSON.
func replaceLoneSurrogates(data []byte) []byte {
	out := data
	copied, inString := false, false
	for i := 0; i < len(data); i++ {
		if !inString {
			inString = data[i] == '"'
			continue
		}
		switch data[i] {
		case '"':
			inString = false
		case '\\':
			if data[i+1] != 'u' {
				i++
				continue
			}
			r := hex4(data[i+2 : i+6])
			switch {
			case isHighSurrogate(r) && i+12 <= len(data) && data[i+6] == '\\' && data[i+7] == 'u' &&
				isLowSurrogate(hex4(data[i+8:i+12])):
				i += 11
			case isHighSurrogate(r) || isLowSurrogate(r):
				if !copied {
					out, copied = bytes.Clone(data), true
				}
				copy(out[i:i+6], `\ufffd`)
				i += 5
			default:
				i += 5
			}
		}
	}
	return out
}

func hex4(b []byte) rune {
	n, _ := strconv.ParseUint(string(b), 16, 32)
	return rune(n)
}

func isHighSurrogate(r rune) bool { return r >= 0xD800 && r < 0xDC00 }
func isLowSurrogate(r rune) bool  { return r >= 0xDC00 && r < 0xE000 }

// Repair rewrites malformed JSON (single quotes, unquoted keys, trailing
// commas, missing brackets and similar) into valid JSON text.
func Repair(data []byte) ([]byte, error) {
	out, err := jsonrepair.JSONRepair(string(data))
	if err != nil {
		return nil, &ParseError{Offset: -1, Msg: "repair: " + err.Error(), Err: err}
	}
	return []byte(out), nil
}

// =============================================================================
// Tree Construction
// =============================================================================

type treeBuilder struct {
	maxDepth int
}

func (b *treeBuilder) build(raw []byte, vt jsonparser.ValueType, depth int) (*Value, error) {
	switch vt {
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			// raw was accepted by validate, so the strict decoder can read it.
			quoted := make([]byte, 0, len(raw)+2)
			quoted = append(append(append(quoted, '"'), raw...), '"')
			if jerr := json.Unmarshal(quoted, &s); jerr != nil {
				return nil, &ParseError{Offset: -1, Msg: "string: " + err.Error(), Err: err}
			}
		}
		return String(s), nil

	case jsonparser.Number:
		// Out-of-range literals saturate to ±Inf or 0, as JSON.parse does.
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &ParseError{Offset: -1, Msg: fmt.Sprintf("number %s: %v", raw, err), Err: err}
		}
		return Number(f), nil

	case jsonparser.Boolean:
		bv, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, &ParseError{Offset: -1, Msg: "boolean: " + err.Error(), Err: err}
		}
		return Bool(bv), nil

	case jsonparser.Null:
		return Null(), nil

	case jsonparser.Array:
		if err := b.checkDepth(depth); err != nil {
			return nil, err
		}
		return b.buildArray(raw, depth)

	case jsonparser.Object:
		if err := b.checkDepth(depth); err != nil {
			return nil, err
		}
		return b.buildObject(raw, depth)
	}
	return nil, &ParseError{Offset: -1, Msg: fmt.Sprintf("unexpected value %q", raw)}
}

func (b *treeBuilder) checkDepth(depth int) error {
	if depth >= b.maxDepth {
		return &ParseError{Offset: -1, Msg: fmt.Sprintf("nesting depth exceeds %d", b.maxDepth)}
	}
	return nil
}

func (b *treeBuilder) buildArray(raw []byte, depth int) (*Value, error) {
	v := &Value{typ: TypeArray, items: []*Value{}}
	var buildErr error
	_, err := jsonparser.ArrayEach(raw, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
		if buildErr != nil {
			return
		}
		if err != nil {
			buildErr = err
			return
		}
		item, err := b.build(value, dt, depth+1)
		if err != nil {
			buildErr = err
			return
		}
		v.items = append(v.items, item)
	})
	if buildErr != nil {
		return nil, asParseError(buildErr)
	}
	if err != nil {
		return nil, asParseError(err)
	}
	return v, nil
}

func (b *treeBuilder) buildObject(raw []byte, depth int) (*Value, error) {
	v := &Value{typ: TypeObject, members: orderedmap.New[string, *Value]()}
	err := jsonparser.ObjectEach(raw, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		child, err := b.build(value, dt, depth+1)
		if err != nil {
			return err
		}
		v.members.Set(string(key), child)
		return nil
	})
	if err != nil {
		return nil, asParseError(err)
	}
	return v, nil
}

func asParseError(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &ParseError{Offset: -1, Msg: err.Error(), Err: err}
}
