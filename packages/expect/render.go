package expect

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// MaxValueLen bounds the rendered length of a single operand.
const MaxValueLen = 80

// FormatValue renders a runtime value the way it appears in bound predicate
// text. Scalars print as Go literals, errors and strings are quoted, and
// structs print as their type name. Methods on the value are called through
// fmt, so a panicking String or Error method cannot escape.
func FormatValue(v any) string {
	if isNil(v) {
		return "nil"
	}

	switch val := v.(type) {
	case string:
		return truncate(strconv.Quote(val))
	case error:
		return "error(" + truncate(strconv.Quote(fmt.Sprint(val))) + ")"
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", val)
	case fmt.Stringer:
		return truncate(fmt.Sprint(val))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		return "func"
	case reflect.Struct:
		return rv.Type().String()
	case reflect.Pointer:
		if rv.Elem().Kind() == reflect.Struct {
			return rv.Type().String()
		}
		return FormatValue(rv.Elem().Interface())
	case reflect.Map:
		return fmt.Sprintf("{map with %d entries}", rv.Len())
	}
	return truncate(fmt.Sprintf("%v", v))
}

// truncate cuts s to at most MaxValueLen bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= MaxValueLen {
		return s
	}
	cut := MaxValueLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
