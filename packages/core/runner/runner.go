package runner

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/expect"
	"github.com/abdul-hamid-achik/specrun/packages/metrics"
)

// ErrNilSpecification is recorded when a runnable unit holds no specification.
var ErrNilSpecification = errors.New("specification is nil")

type Runner struct {
	config  *Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type Config struct {
	Verbose bool
	// Bail stops a batch after the first failing specification
	Bail bool
	// NameFilter keeps specifications whose name matches; * wildcards are
	// allowed at either end
	NameFilter string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records batch timings into m instead of a fresh collector per
// batch.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

func NewRunner(cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &Runner{
		config: cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOne executes a unit through its phases. It never panics: any failure,
// including one inside the runner itself, ends up on the returned result.
func (r *Runner) RunOne(unit spec.Unit) (result *RunResult) {
	start := time.Now()
	result = &RunResult{Member: unit.Member()}

	defer func() {
		if p := recover(); p != nil {
			result = &RunResult{
				Name:    UnitName(unit),
				Message: MessageUnbound,
				Thrown:  spec.NewPanicError(p),
				Member:  unit.Member(),
			}
		}
		result.Duration = time.Since(start)
		r.logResult(result)
	}()

	if !unit.IsRunnable() {
		result.Name = UnitName(unit)
		result.Message = unit.Reason()
		result.Thrown = unit.Err()
		return result
	}

	s := unit.Specification()
	if s == nil {
		result.Name = UnitName(unit)
		result.Message = MessageUnbound
		result.Thrown = ErrNilSpecification
		return result
	}

	var sess spec.Session
	if err := spec.Guard(func() error { sess = s.Bind(); return nil }); err != nil || sess == nil {
		if err == nil {
			err = fmt.Errorf("%T returned no session", s)
		}
		result.Name = UnitName(unit)
		result.Message = MessageUnbound
		result.Thrown = err
		return result
	}
	result.Name = UnitName(unit)

	if !r.setup(sess, result) {
		return result
	}

	// A failed On keeps its message but does not fail the run.
	assertionsOK := r.runExpectations(sess, result)
	finallyOK := r.runFinally(sess, result)
	result.Passed = assertionsOK && finallyOK
	return result
}

// setup runs Before, On and When. When it returns false the run stops and
// result is final.
func (r *Runner) setup(sess spec.Session, result *RunResult) bool {
	if err := spec.Guard(sess.Before); err != nil {
		result.Message = MessageBeforeFailed
		result.Thrown = err
		return false
	}

	if err := spec.Guard(sess.On); err != nil {
		result.Message = MessageOnFailed
		result.Thrown = err
	} else {
		result.On = sess.Factory()
	}
	result.Subject = sess.Subject()

	if !sess.HasWhen() {
		*result = RunResult{
			Name:    result.Name,
			Message: MessageNoWhen,
			Member:  result.Member,
		}
		return false
	}

	var value any
	err := spec.Guard(func() error {
		var err error
		value, err = sess.When()
		return err
	})
	if err != nil {
		result.Message = MessageWhenFailed
		result.Thrown = err
		return false
	}
	result.Result = value
	return true
}

func (r *Runner) runExpectations(sess spec.Session, result *RunResult) bool {
	var bounds []expect.Bound
	if err := spec.Guard(func() error { bounds = sess.Expectations(); return nil }); err != nil {
		result.Message = MessageUnbound
		result.Thrown = err
		return false
	}

	allOK := true
	result.Expectations = make([]*ExpectationResult, 0, len(bounds))
	for _, b := range bounds {
		err := spec.Guard(b.Check)
		if err != nil {
			allOK = false
		}
		result.Expectations = append(result.Expectations, &ExpectationResult{
			Passed:   err == nil,
			Text:     b.Text(),
			Original: b.Original(),
			Err:      err,
		})
	}
	return allOK
}

func (r *Runner) runFinally(sess spec.Session, result *RunResult) bool {
	if err := spec.Guard(sess.Finally); err != nil {
		result.Message = MessageFinallyFailed
		result.Thrown = err
		return false
	}
	return true
}

func (r *Runner) logResult(result *RunResult) {
	fields := []zap.Field{
		zap.String("name", result.Name),
		zap.Stringer("member", result.Member),
		zap.Bool("passed", result.Passed),
		zap.Duration("duration", result.Duration),
	}
	if result.Message != "" {
		fields = append(fields, zap.String("message", result.Message))
	}
	if result.Thrown != nil {
		fields = append(fields, zap.Error(result.Thrown))
	}

	if r.config.Verbose {
		r.logger.Info("specification finished", fields...)
		return
	}
	r.logger.Debug("specification finished", fields...)
}
