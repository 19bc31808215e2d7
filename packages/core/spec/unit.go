package spec

// MemberKind is how a specification source is declared.
type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberField
	MemberStatic
)

func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberField:
		return "field"
	case MemberStatic:
		return "static"
	default:
		return "unknown"
	}
}

// Member identifies the declaration a specification was found on.
type Member struct {
	Type string
	Name string
	Kind MemberKind
}

func (m Member) String() string {
	if m.Type == "" {
		return m.Name
	}
	return m.Type + "." + m.Name
}

// Unit is either a runnable specification or a discovery failure, never both.
type Unit struct {
	spec   Specification
	failed bool
	reason string
	err    error
	member Member
}

// NewRunnable wraps a discovered specification.
func NewRunnable(s Specification, m Member) Unit {
	return Unit{spec: s, member: m}
}

// NewFailed records a member that could not produce a specification.
func NewFailed(reason string, err error, m Member) Unit {
	return Unit{failed: true, reason: reason, err: err, member: m}
}

func (u Unit) IsRunnable() bool { return !u.failed }

// Specification is nil for failed units.
func (u Unit) Specification() Specification { return u.spec }

// Reason is empty for runnable units.
func (u Unit) Reason() string { return u.reason }

func (u Unit) Err() error { return u.err }

func (u Unit) Member() Member { return u.member }
