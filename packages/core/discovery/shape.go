package discovery

import (
	"iter"
	"reflect"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
)

var (
	specType  = reflect.TypeFor[spec.Specification]()
	errorType = reflect.TypeFor[error]()
	boolType  = reflect.TypeFor[bool]()
	specSeq   = reflect.TypeFor[iter.Seq[spec.Specification]]()
)

// shape is how a member's value carries specifications.
type shape int

const (
	shapeNone shape = iota
	shapeSingle
	shapeSlice
	shapeSeq
)

// valueShape classifies the type of a field or call result.
func valueShape(t reflect.Type) shape {
	switch {
	case t.Implements(specType):
		return shapeSingle
	case t.Kind() == reflect.Slice && t.Elem().Implements(specType):
		return shapeSlice
	case t.AssignableTo(specSeq) || isSeqOfSpecs(t):
		return shapeSeq
	}
	return shapeNone
}

// isSeqOfSpecs matches func(yield func(E) bool) where E is a specification.
func isSeqOfSpecs(t reflect.Type) bool {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	yield := t.In(0)
	return yield.Kind() == reflect.Func &&
		yield.NumIn() == 1 && yield.NumOut() == 1 &&
		yield.In(0).Implements(specType) &&
		yield.Out(0) == boolType
}

// funcShape classifies a function that takes skip leading receiver
// arguments and nothing else. The second result reports a trailing error.
func funcShape(t reflect.Type, skip int) (shape, bool) {
	if t.Kind() != reflect.Func || t.NumIn() != skip || t.IsVariadic() {
		return shapeNone, false
	}
	switch t.NumOut() {
	case 1:
		return valueShape(t.Out(0)), false
	case 2:
		if t.Out(1) != errorType {
			return shapeNone, false
		}
		return valueShape(t.Out(0)), true
	}
	return shapeNone, false
}

// asSpec converts a reflected value, mapping typed nils to nil.
func asSpec(v reflect.Value) spec.Specification {
	if !v.IsValid() || isNilValue(v) {
		return nil
	}
	s, _ := v.Interface().(spec.Specification)
	return s
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
