package jsontree

import "encoding/json"

// DataType is the display type of a JSON value.
type DataType string

// The six JSON data types.
const (
	TypeString  DataType = "string"
	TypeNumber  DataType = "number"
	TypeBoolean DataType = "boolean"
	TypeNull    DataType = "null"
	TypeArray   DataType = "array"
	TypeObject  DataType = "object"
)

// IsContainer reports whether values of this type have children.
func (t DataType) IsContainer() bool {
	return t == TypeArray || t == TypeObject
}

// TypeOf classifies a decoded Go value. It accepts the shapes produced by
// encoding/json (nil, bool, float64, json.Number, string, []any,
// map[string]any), Go integer types, and *Value.
//
// Null is checked first, then sequences, so that a nil map or slice is
// reported as null rather than as a container. Anything unrecognised is an
// object, mirroring typeof in JavaScript.
func TypeOf(v any) DataType {
	switch x := v.(type) {
	case nil:
		return TypeNull
	case *Value:
		if x == nil {
			return TypeNull
		}
		return x.Type()
	case []any:
		if x == nil {
			return TypeNull
		}
		return TypeArray
	case map[string]any:
		if x == nil {
			return TypeNull
		}
		return TypeObject
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case float64, float32, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	default:
		return TypeObject
	}
}

// =============================================================================
// Palette
// =============================================================================

// Swatch is the set of colours a data type is drawn with.
type Swatch struct {
	Class string // Tailwind background class used by the web canvas
	Hex   string // #rrggbb equivalent of Class
	ANSI  string // 256-colour terminal code
}

var palette = map[DataType]Swatch{
	TypeString:  {Class: "bg-blue-600", Hex: "#2563eb", ANSI: "33"},
	TypeNumber:  {Class: "bg-green-600", Hex: "#16a34a", ANSI: "35"},
	TypeBoolean: {Class: "bg-yellow-600", Hex: "#ca8a04", ANSI: "178"},
	TypeNull:    {Class: "bg-gray-600", Hex: "#4b5563", ANSI: "243"},
	TypeArray:   {Class: "bg-purple-600", Hex: "#9333ea", ANSI: "129"},
	TypeObject:  {Class: "bg-pink-600", Hex: "#db2777", ANSI: "162"},
}

// SwatchFor returns the colours for t. Unknown types get the null swatch.
func SwatchFor(t DataType) Swatch {
	if s, ok := palette[t]; ok {
		return s
	}
	return palette[TypeNull]
}
