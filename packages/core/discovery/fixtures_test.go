package discovery

import (
	"errors"
	"iter"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
)

func titled(title string) *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{Title: title}
}

// pairSpecs declares one single and one paired member.
type pairSpecs struct{}

func (pairSpecs) ASingle() spec.Specification { return titled("single") }

func (pairSpecs) BPair() []spec.Specification {
	return []spec.Specification{titled("first"), titled("second")}
}

// brokenSpecs has a failing member next to a good one.
type brokenSpecs struct{}

func (brokenSpecs) Broken() (spec.Specification, error) {
	return nil, errors.New("cannot build")
}

func (brokenSpecs) Good() spec.Specification { return titled("good") }

func (brokenSpecs) Panics() spec.Specification { panic("exploded") }

// sequenceSpecs exercises iterator members.
type sequenceSpecs struct{}

func (sequenceSpecs) Exploding() iter.Seq[spec.Specification] {
	return func(yield func(spec.Specification) bool) {
		if !yield(titled("before explosion")) {
			return
		}
		panic("sequence failed")
	}
}

func (sequenceSpecs) Typed() iter.Seq[*spec.ActionSpec[int]] {
	return func(yield func(*spec.ActionSpec[int]) bool) {
		for _, t := range []string{"one", "two"} {
			if !yield(titled(t)) {
				return
			}
		}
	}
}

func (sequenceSpecs) WithNil() []*spec.ActionSpec[int] {
	return []*spec.ActionSpec[int]{titled("present"), nil}
}

// mixedSpecs has qualifying and non-qualifying members and fields.
type mixedSpecs struct {
	Field    spec.Specification
	Many     []spec.Specification
	Empty    spec.Specification
	Count    int
	private  spec.Specification
	Embedded
}

type Embedded struct {
	Inner spec.Specification
}

func (mixedSpecs) Method() *spec.QuerySpec[string, int] {
	return &spec.QuerySpec[string, int]{Title: "method"}
}

func (mixedSpecs) NilResult() spec.Specification { return nil }

func (mixedSpecs) TakesArgs(int) spec.Specification { return titled("args") }

func (mixedSpecs) WrongType() int { return 1 }

func (mixedSpecs) WrongSecond() (spec.Specification, string) { return titled("wrong"), "" }

func newMixed() *mixedSpecs {
	return &mixedSpecs{
		Field:    titled("field"),
		Many:     []spec.Specification{titled("many 1"), titled("many 2")},
		private:  titled("private"),
		Embedded: Embedded{Inner: titled("inner")},
	}
}

// counterSpecs mutates its receiver to show every member gets a fresh copy.
type counterSpecs struct {
	N int
}

func (c *counterSpecs) First() spec.Specification {
	c.N++
	return titled("first")
}

func (c *counterSpecs) Second() spec.Specification {
	c.N++
	if c.N != 1 {
		return titled("shared")
	}
	return titled("fresh")
}

func staticSpec() spec.Specification { return titled("static") }

func staticOverload() []spec.Specification {
	return []spec.Specification{titled("overload 1"), titled("overload 2")}
}

func staticNil() spec.Specification { return nil }

// orderedSpecs declares members out of alphabetical order.
type orderedSpecs struct {
	Zeta  spec.Specification
	Alpha spec.Specification
}

func (orderedSpecs) Zulu() spec.Specification  { return titled("zulu method") }
func (orderedSpecs) Bravo() spec.Specification { return titled("bravo method") }

func staticNamed(title string) func() spec.Specification {
	return func() spec.Specification { return titled(title) }
}
