// Package expect builds assertion predicates as small expression trees.
//
// A predicate is written against a subject placeholder:
//
//	expect.That(func(x expect.Term[int]) expect.Cond {
//		return expect.Eq(x, expect.Lit(3))
//	})
//
// Binding a predicate to a runtime value substitutes the placeholder without
// evaluating anything, so the bound tree can be rendered for reports
// ("4 == 3") and checked separately.
//
// Supported nodes:
//   - Placeholder and Literal operands
//   - Member access and named function calls
//   - Binary operators: ==, !=, <, <=, >, >=, &&, ||, contains, startsWith,
//     endsWith, matches, length, includes, in, type
//   - Negation
//   - JSON path lookups (gjson) and JSON Schema validation (gojsonschema)
//   - Opaque predicates with a display label
package expect
