package jsonx

import (
	"github.com/json-iterator/go"
	"reflect"
)

var _jsonx = jsoniter.Config{
	IndentionStep:          2,
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var (
	Marshal       = _jsonx.Marshal
	Unmarshal     = _jsonx.Unmarshal
	MarshalIndent = _jsonx.MarshalIndent
	NewEncoder    = _jsonx.NewEncoder
	NewDecoder    = _jsonx.NewDecoder
)

func init() {
	// int64, uint64 fields are written as strings.
	jsoniter.RegisterExtension(newIntegerExtension(reflect.Int64, reflect.Uint64))
	// field names are written in lowerCamelCase.
	jsoniter.RegisterExtension(&camelCaseExtension{})
	// uint256.Int is written as a decimal string.
	registerUint256Codec()
}
