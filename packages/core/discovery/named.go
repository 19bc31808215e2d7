package discovery

import (
	"fmt"
	"iter"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
)

// ScanNamedMembers resolves each "Type.Member" name against u, in order.
// The name is split at its last dot. Every method, static and field called
// Member contributes units; statics sharing a name are all used.
func ScanNamedMembers(u *Universe, names []string, opts ...Option) iter.Seq[spec.Unit] {
	o := newOptions(opts)
	return func(yield func(spec.Unit) bool) {
		for _, name := range names {
			if !scanNamed(u, name, o, yield) {
				return
			}
		}
	}
}

func scanNamed(u *Universe, name string, o *options, yield func(spec.Unit) bool) bool {
	typeName, memberName, ok := splitMemberName(name)
	info, found := u.Resolve(typeName)
	if !ok || !found {
		member := spec.Member{Type: typeName, Name: memberName}
		err := fmt.Errorf("%w: %q", ErrTypeNotFound, name)
		o.logger.Debug("specification member failed",
			zap.Stringer("member", member),
			zap.String("reason", ReasonTypeNotFound),
			zap.Error(err),
		)
		return yield(spec.NewFailed(ReasonTypeNotFound, err, member))
	}

	s := &scanner{info: info, opts: o, named: true}
	matched := false

	ptrType := reflect.PointerTo(info.elemType())
	if m, ok := ptrType.MethodByName(memberName); ok {
		matched = true
		if !s.method(m, yield) {
			return false
		}
	}

	for _, st := range info.statics {
		if st.name != memberName {
			continue
		}
		matched = true
		if !s.static(st, yield) {
			return false
		}
	}

	if elem := info.elemType(); elem.Kind() == reflect.Struct {
		if f, ok := elem.FieldByName(memberName); ok && len(f.Index) == 1 {
			matched = true
			if !s.field(f, yield) {
				return false
			}
		}
	}

	if !matched {
		o.logger.Debug("no member with that name", zap.String("name", name))
	}
	return true
}

// splitMemberName splits "pkg.Type.Member" at the last dot.
func splitMemberName(name string) (typeName, member string, ok bool) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, "", false
	}
	return name[:idx], name[idx+1:], true
}
