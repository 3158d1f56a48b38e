// Package naming derives stable snake_case names from Go identifiers and types.
package naming

import (
	"reflect"
	"strings"
	"unicode"
)

// TypeName returns the snake_case name of v's type with pointer, package and
// generic decoration removed, e.g. *catalog.DeleteProductCommand becomes
// "delete_product_command". It is used for log fields and cache namespaces.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return TypeNameOf(reflect.TypeOf(v))
}

// TypeNameOf is TypeName for an already reflected type.
func TypeNameOf(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	return ToSnake(name)
}

// ToSnake converts s to snake_case using ASCII-aware rules. Punctuation is
// collapsed into single underscores so reflected names are safe as key parts.
func ToSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if (unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower) && !lastUnderscore {
					b.WriteByte('_')
					lastUnderscore = true
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r):
			b.WriteRune(r)
			lastUnderscore = false

		case unicode.IsDigit(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				if !unicode.IsDigit(prev) && prev != '_' && !lastUnderscore {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r)
			lastUnderscore = false

		case r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		case r == '-' || unicode.IsSpace(r):
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
