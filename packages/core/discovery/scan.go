package discovery

import (
	"iter"
	"reflect"

	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
)

// ScanType discovers the specifications declared on v's type: exported
// methods first, in name order, then exported fields in declaration order.
// Each member is read from a shallow copy of v.
//
// Go does not expose the source order of methods, so callers that need units
// in declaration order should declare them as fields, or register them with
// WithStatic and scan through ScanUniverse, which keeps registration order.
func ScanType(v any, opts ...Option) iter.Seq[spec.Unit] {
	o := newOptions(opts)
	return func(yield func(spec.Unit) bool) {
		info, err := newTypeInfo("", v)
		if err != nil {
			o.logger.Debug("cannot scan type", zap.Error(err))
			return
		}
		s := &scanner{info: info, opts: o}
		s.scanType(yield)
	}
}

// ScanUniverse scans every registered type in registration order. Statics
// follow the methods and fields of their type.
func ScanUniverse(u *Universe, opts ...Option) iter.Seq[spec.Unit] {
	o := newOptions(opts)
	return func(yield func(spec.Unit) bool) {
		for _, name := range u.order {
			s := &scanner{info: u.types[name], opts: o}
			if !s.scanType(yield) {
				return
			}
			for _, st := range s.info.statics {
				if !s.static(st, yield) {
					return
				}
			}
		}
	}
}

type scanner struct {
	info *TypeInfo
	opts *options
	// named enables the nil policy
	named bool
}

func (s *scanner) scanType(yield func(spec.Unit) bool) bool {
	ptrType := reflect.PointerTo(s.info.elemType())
	for i := 0; i < ptrType.NumMethod(); i++ {
		if !s.method(ptrType.Method(i), yield) {
			return false
		}
	}

	elem := s.info.elemType()
	if elem.Kind() != reflect.Struct {
		return true
	}
	for i := 0; i < elem.NumField(); i++ {
		if !s.field(elem.Field(i), yield) {
			return false
		}
	}
	return true
}

func (s *scanner) member(name string, kind spec.MemberKind) spec.Member {
	return spec.Member{Type: s.info.Name, Name: name, Kind: kind}
}

func (s *scanner) method(m reflect.Method, yield func(spec.Unit) bool) bool {
	sh, hasErr := funcShape(m.Type, 1)
	if sh == shapeNone {
		return true
	}
	member := s.member(m.Name, spec.MemberMethod)
	call := func() (reflect.Value, error) {
		inst, err := s.info.newInstance()
		if err != nil {
			return reflect.Value{}, err
		}
		return invoke(inst.Method(m.Index), hasErr)
	}
	return s.emit(member, sh, call, yield)
}

func (s *scanner) static(st static, yield func(spec.Unit) bool) bool {
	if !st.fn.IsValid() {
		return true
	}
	sh, hasErr := funcShape(st.fn.Type(), 0)
	if sh == shapeNone {
		return true
	}
	member := s.member(st.name, spec.MemberStatic)
	call := func() (reflect.Value, error) {
		return invoke(st.fn, hasErr)
	}
	return s.emit(member, sh, call, yield)
}

func (s *scanner) field(f reflect.StructField, yield func(spec.Unit) bool) bool {
	if !f.IsExported() || f.Anonymous {
		return true
	}
	sh := valueShape(f.Type)
	if sh == shapeNone {
		return true
	}
	member := s.member(f.Name, spec.MemberField)
	read := func() (reflect.Value, error) {
		inst, err := s.info.newInstance()
		if err != nil {
			return reflect.Value{}, err
		}
		return inst.Elem().FieldByIndex(f.Index), nil
	}
	return s.emit(member, sh, read, yield)
}

// emit materialises one member and yields its units.
func (s *scanner) emit(member spec.Member, sh shape, get func() (reflect.Value, error), yield func(spec.Unit) bool) bool {
	for _, u := range s.materialize(member, sh, get) {
		if !u.IsRunnable() {
			s.opts.logger.Debug("specification member failed",
				zap.Stringer("member", member),
				zap.String("reason", u.Reason()),
				zap.Error(u.Err()),
			)
		}
		if !yield(u) {
			return false
		}
	}
	return true
}

func (s *scanner) materialize(member spec.Member, sh shape, get func() (reflect.Value, error)) []spec.Unit {
	if sh == shapeSingle {
		var v reflect.Value
		if err := spec.Guard(func() (err error) { v, err = get(); return err }); err != nil {
			return []spec.Unit{spec.NewFailed(ReasonCreateFailed, err, member)}
		}
		sp := asSpec(v)
		if sp != nil {
			return []spec.Unit{spec.NewRunnable(sp, member)}
		}
		if s.named && s.opts.nilPolicy == FailNil {
			return []spec.Unit{spec.NewFailed(ReasonNilSpecification, ErrNilSpecification, member)}
		}
		return nil
	}

	var items []reflect.Value
	err := spec.Guard(func() error {
		v, err := get()
		if err != nil {
			return err
		}
		items = realize(v, sh)
		return nil
	})
	if err != nil {
		return []spec.Unit{spec.NewFailed(ReasonSequenceFailed, err, member)}
	}

	units := make([]spec.Unit, 0, len(items))
	for _, item := range items {
		units = append(units, spec.NewRunnable(asSpec(item), member))
	}
	return units
}

// realize collects the elements of a slice or sequence value.
func realize(v reflect.Value, sh shape) []reflect.Value {
	if !v.IsValid() || isNilValue(v) {
		return nil
	}

	var items []reflect.Value
	switch sh {
	case shapeSlice:
		for i := 0; i < v.Len(); i++ {
			items = append(items, v.Index(i))
		}
	case shapeSeq:
		yieldType := v.Type().In(0)
		yield := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			items = append(items, args[0])
			return []reflect.Value{reflect.ValueOf(true)}
		})
		v.Call([]reflect.Value{yield})
	}
	return items
}

// invoke calls fn with no arguments. A non-nil trailing error is returned.
func invoke(fn reflect.Value, hasErr bool) (reflect.Value, error) {
	out := fn.Call(nil)
	if hasErr {
		if err, _ := out[1].Interface().(error); err != nil {
			return out[0], err
		}
	}
	return out[0], nil
}
