package expect

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
)

func compare(op Operator, actual, expected any) (bool, error) {
	switch op {
	case OpEq:
		return equals(actual, expected), nil
	case OpNe:
		return !equals(actual, expected), nil
	case OpGt, OpGe, OpLt, OpLe:
		return compareOrdered(actual, expected, op)
	case OpContains:
		return strings.Contains(toString(actual), toString(expected)), nil
	case OpNotContains:
		return !strings.Contains(toString(actual), toString(expected)), nil
	case OpStartsWith:
		return strings.HasPrefix(toString(actual), toString(expected)), nil
	case OpEndsWith:
		return strings.HasSuffix(toString(actual), toString(expected)), nil
	case OpMatches:
		return matches(actual, expected)
	case OpLength:
		return length(actual, expected)
	case OpIncludes:
		return includes(actual, expected)
	case OpIn:
		return includes(expected, actual)
	case OpType:
		return typeName(actual) == toString(expected), nil
	default:
		return false, fmt.Errorf("unknown operator: %v", op)
	}
}

// equals compares values of the same type with reflect.DeepEqual. Errors
// compare by identity, and numbers of different kinds compare by value.
func equals(actual, expected any) bool {
	if isNil(actual) || isNil(expected) {
		return isNil(actual) && isNil(expected)
	}

	_, aErr := actual.(error)
	_, eErr := expected.(error)
	if aErr || eErr {
		return sameError(actual, expected)
	}

	if reflect.DeepEqual(actual, expected) {
		return true
	}

	c, ok := compareNumbers(actual, expected)
	return ok && c == 0
}

func sameError(actual, expected any) bool {
	t := reflect.TypeOf(actual)
	if t != reflect.TypeOf(expected) || !t.Comparable() {
		return false
	}
	return actual == expected
}

func compareOrdered(actual, expected any, op Operator) (bool, error) {
	if as, ok := actual.(string); ok {
		if es, ok := expected.(string); ok {
			return orderHolds(strings.Compare(as, es), op), nil
		}
	}

	c, ok := compareNumbers(actual, expected)
	if !ok {
		if isNaN(actual) || isNaN(expected) {
			return false, nil
		}
		return false, fmt.Errorf("cannot compare non-numeric values: %v %s %v", actual, op, expected)
	}
	return orderHolds(c, op), nil
}

type numberKind int

const (
	notNumber numberKind = iota
	signedNumber
	unsignedNumber
	floatNumber
)

func kindOf(v reflect.Value) numberKind {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNumber
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedNumber
	case reflect.Float32, reflect.Float64:
		return floatNumber
	}
	return notNumber
}

// compareNumbers orders two numeric operands. Integers compare exactly and
// only comparisons involving a float go through float64. It reports false
// when either operand is not a number or is NaN.
func compareNumbers(a, b any) (int, bool) {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	ak, bk := kindOf(av), kindOf(bv)
	if ak == notNumber || bk == notNumber {
		return 0, false
	}

	switch {
	case ak == signedNumber && bk == signedNumber:
		return cmp.Compare(av.Int(), bv.Int()), true
	case ak == unsignedNumber && bk == unsignedNumber:
		return cmp.Compare(av.Uint(), bv.Uint()), true
	case ak == signedNumber && bk == unsignedNumber:
		if av.Int() < 0 {
			return -1, true
		}
		return cmp.Compare(uint64(av.Int()), bv.Uint()), true
	case ak == unsignedNumber && bk == signedNumber:
		if bv.Int() < 0 {
			return 1, true
		}
		return cmp.Compare(av.Uint(), uint64(bv.Int())), true
	}

	x, y := asFloat(av, ak), asFloat(bv, bk)
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, false
	}
	return cmp.Compare(x, y), true
}

func asFloat(v reflect.Value, k numberKind) float64 {
	switch k {
	case signedNumber:
		return float64(v.Int())
	case unsignedNumber:
		return float64(v.Uint())
	}
	return v.Float()
}

func isNaN(v any) bool {
	rv := reflect.ValueOf(v)
	return kindOf(rv) == floatNumber && math.IsNaN(rv.Float())
}

func orderHolds(c int, op Operator) bool {
	switch op {
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	}
	return false
}

func matches(actual, expected any) (bool, error) {
	pattern := toString(expected)
	pattern = strings.TrimPrefix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return re.MatchString(toString(actual)), nil
}

// computeLength returns the length of a value, or -1 if length cannot be computed
func computeLength(actual any) int {
	switch v := actual.(type) {
	case string:
		return len(v)
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	}
	rv := reflect.ValueOf(actual)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len()
	default:
		return -1
	}
}

func length(actual, expected any) (bool, error) {
	expectedLen, ok := toInt(expected)
	if !ok {
		return false, fmt.Errorf("expected length must be a number, got %v", expected)
	}
	actualLen := computeLength(actual)
	if actualLen == -1 {
		return false, fmt.Errorf("cannot get length of %T", actual)
	}
	return actualLen == expectedLen, nil
}

func includes(collection, item any) (bool, error) {
	rv := reflect.ValueOf(collection)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false, fmt.Errorf("expected array, got %T", collection)
	}
	for i := 0; i < rv.Len(); i++ {
		if equals(rv.Index(i).Interface(), item) {
			return true, nil
		}
	}
	return false, nil
}

func typeName(actual any) string {
	switch actual.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return reflect.TypeOf(actual).String()
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	}
	return 0, false
}
