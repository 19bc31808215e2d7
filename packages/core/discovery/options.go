package discovery

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NilPolicy decides what a named member lookup does with a nil specification.
type NilPolicy int

const (
	// DropNil skips nil specifications silently.
	DropNil NilPolicy = iota
	// FailNil reports nil specifications as failed units.
	FailNil
)

func (p NilPolicy) String() string {
	switch p {
	case FailNil:
		return "fail"
	default:
		return "drop"
	}
}

// ParseNilPolicy accepts "drop" or "fail". An empty string means DropNil.
func ParseNilPolicy(s string) (NilPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return DropNil, nil
	case "fail":
		return FailNil, nil
	default:
		return DropNil, fmt.Errorf("unknown nil policy %q (expected drop or fail)", s)
	}
}

type options struct {
	logger    *zap.Logger
	nilPolicy NilPolicy
}

// Option configures a scan.
type Option func(*options)

// WithLogger sets the logger failed units are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNilPolicy sets how named lookups treat nil specifications. Type scans
// always drop them.
func WithNilPolicy(p NilPolicy) Option {
	return func(o *options) {
		o.nilPolicy = p
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
