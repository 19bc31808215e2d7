// Package spec defines the specification model.
//
// A specification describes one test case across five phases:
//   - Before: optional setup
//   - On: the factory producing the subject under test
//   - When: the action applied to the subject
//   - Expect: predicates over the result of When
//   - Finally: optional teardown
//
// Two variants exist. ActionSpec[T] applies When to a T and asserts over a T.
// QuerySpec[S, R] applies When to an S and asserts over the R it returns.
// Both bind to a Session, which the runner drives phase by phase without
// knowing the element types.
//
// Example:
//
//	&spec.ActionSpec[int]{
//		Title:  "increment",
//		On:     func() (int, error) { return 3, nil },
//		When:   spec.Map(func(x int) int { return x + 1 }),
//		Expect: []expect.Predicate[int]{
//			expect.That(func(x expect.Term[int]) expect.Cond {
//				return expect.Eq(x, expect.Lit(4))
//			}),
//		},
//	}
package spec
