package discovery

import (
	"fmt"
	"reflect"
)

// Universe is the set of types specifications can be discovered on. Programs
// register their specification types at startup.
type Universe struct {
	types map[string]*TypeInfo
	order []string
}

// TypeInfo describes a registered type.
type TypeInfo struct {
	Name        string
	prototype   reflect.Value
	constructor func() any
	statics     []static
}

type static struct {
	name string
	fn   reflect.Value
}

// TypeOption configures a registered type.
type TypeOption func(*TypeInfo)

// WithStatic attaches a package-level function to the type under name.
// Several functions may share a name.
func WithStatic(name string, fn any) TypeOption {
	return func(t *TypeInfo) {
		t.statics = append(t.statics, static{name: name, fn: reflect.ValueOf(fn)})
	}
}

// WithConstructor builds fresh instances with fn instead of copying the
// prototype.
func WithConstructor(fn func() any) TypeOption {
	return func(t *TypeInfo) {
		t.constructor = fn
	}
}

func NewUniverse() *Universe {
	return &Universe{types: make(map[string]*TypeInfo)}
}

// Register adds a type under name. The prototype may be a value or a pointer;
// each member is read from a shallow copy of it.
func (u *Universe) Register(name string, prototype any, opts ...TypeOption) error {
	info, err := newTypeInfo(name, prototype)
	if err != nil {
		return err
	}
	if _, exists := u.types[name]; exists {
		return fmt.Errorf("%w: %s", ErrTypeAlreadyRegistered, name)
	}
	for _, opt := range opts {
		opt(info)
	}

	u.types[name] = info
	u.order = append(u.order, name)
	return nil
}

// MustRegister registers a type and panics on error.
// Use this for static registration at startup.
func (u *Universe) MustRegister(name string, prototype any, opts ...TypeOption) *Universe {
	if err := u.Register(name, prototype, opts...); err != nil {
		panic(fmt.Sprintf("failed to register type %s: %v", name, err))
	}
	return u
}

// Resolve looks up a registered type.
func (u *Universe) Resolve(name string) (*TypeInfo, bool) {
	info, ok := u.types[name]
	return info, ok
}

// Types returns the registered type names in registration order.
func (u *Universe) Types() []string {
	out := make([]string, len(u.order))
	copy(out, u.order)
	return out
}

func newTypeInfo(name string, prototype any) (*TypeInfo, error) {
	if prototype == nil {
		return nil, fmt.Errorf("%w: %s has no prototype", ErrInvalidPrototype, name)
	}
	v := reflect.ValueOf(prototype)
	if name == "" {
		name = typeName(v.Type())
	}
	return &TypeInfo{Name: name, prototype: v}, nil
}

// elemType is the declared type, without the pointer.
func (t *TypeInfo) elemType() reflect.Type {
	typ := t.prototype.Type()
	if typ.Kind() == reflect.Pointer {
		return typ.Elem()
	}
	return typ
}

// newInstance returns a pointer to a fresh instance.
func (t *TypeInfo) newInstance() (reflect.Value, error) {
	if t.constructor != nil {
		v := reflect.ValueOf(t.constructor())
		if !v.IsValid() {
			return reflect.Value{}, fmt.Errorf("constructor for %s returned nil", t.Name)
		}
		return t.pointerTo(v)
	}
	return t.pointerTo(t.prototype)
}

func (t *TypeInfo) pointerTo(v reflect.Value) (reflect.Value, error) {
	elem := t.elemType()
	ptr := reflect.New(elem)

	switch {
	case v.Type() == elem:
		ptr.Elem().Set(v)
	case v.Kind() == reflect.Pointer && v.Type().Elem() == elem:
		if !v.IsNil() {
			ptr.Elem().Set(v.Elem())
		}
	default:
		return reflect.Value{}, fmt.Errorf("constructor for %s returned %s", t.Name, v.Type())
	}
	return ptr, nil
}

func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
