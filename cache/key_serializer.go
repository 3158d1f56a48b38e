package cache

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// MaxKeyLength is the longest key the default serializer emits verbatim.
// Longer keys keep their namespace and replace the rest with a fingerprint.
const MaxKeyLength = 200

// KeySerializer builds a cache key from a namespace and the fields of a query.
// Equal inputs must always produce equal keys.
type KeySerializer interface {
	SerializeKey(namespace string, args ...any) string
}

// defaultKeySerializer implements KeySerializer using reflection. Maps are
// emitted in sorted key order and structs by exported field, so keys are
// stable across calls and processes. Strings are quoted so separators inside
// a value never shift segment boundaries.
type defaultKeySerializer struct {
	maxLength int
}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{maxLength: MaxKeyLength}
}

// SerializeKey joins the namespace and serialized args with KeySeparator.
func (s *defaultKeySerializer) SerializeKey(namespace string, args ...any) string {
	if len(args) == 0 {
		return namespace
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, namespace)
	for _, arg := range args {
		parts = append(parts, s.serializeValue(reflect.ValueOf(arg)))
	}

	key := strings.Join(parts, KeySeparator)
	if s.maxLength > 0 && len(key) > s.maxLength {
		return namespace + KeySeparator + "h" + Fingerprint(key)
	}
	return key
}

// Fingerprint returns a hex xxhash of the given parts joined with KeySeparator.
func Fingerprint(parts ...string) string {
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(parts, KeySeparator)), 16)
}

func (s *defaultKeySerializer) serializeValue(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}

	if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface && rv.CanInterface() {
		if tm, ok := rv.Interface().(encoding.TextMarshaler); ok {
			if text, err := tm.MarshalText(); err == nil {
				return strconv.Quote(string(text))
			}
		}
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem())

	case reflect.Func:
		if rv.IsNil() {
			return "func:nil"
		}
		return fmt.Sprintf("func:%x", rv.Pointer())

	case reflect.Chan:
		return fmt.Sprintf("chan:%x", rv.Pointer())

	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return "slice" + s.serializeElems(rv)

	case reflect.Array:
		return "array" + s.serializeElems(rv)

	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return s.serializeMap(rv)

	case reflect.Struct:
		return s.serializeStruct(rv)

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%v", rv.Interface())

	case reflect.String:
		return strconv.Quote(rv.String())
	}

	return s.jsonFallback(rv)
}

func (s *defaultKeySerializer) serializeElems(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = s.serializeValue(rv.Index(i))
	}
	return fmt.Sprintf("[%d]:{%s}", len(parts), strings.Join(parts, ","))
}

func (s *defaultKeySerializer) serializeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, s.serializeValue(iter.Key())+"="+s.serializeValue(iter.Value()))
	}
	sort.Strings(pairs)
	return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

func (s *defaultKeySerializer) serializeStruct(rv reflect.Value) string {
	rt := rv.Type()
	parts := make([]string, 0, rv.NumField())

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+s.serializeValue(rv.Field(i)))
	}

	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ","))
}

func (s *defaultKeySerializer) jsonFallback(rv reflect.Value) string {
	if !rv.CanInterface() {
		return "fallback:" + rv.Type().String()
	}
	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return "fallback:" + rv.Type().String()
	}
	return "json:" + string(data)
}
