package expect

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// Path looks up a gjson path in the JSON form of its operand. A missing path
// evaluates to nil.
type Path struct {
	X    Expr
	Path string
}

func (p *Path) Render() string {
	return "jsonpath(" + p.X.Render() + ", " + strconv.Quote(p.Path) + ")"
}

func (p *Path) Eval() (any, error) {
	x, err := p.X.Eval()
	if err != nil {
		return nil, err
	}
	data, err := jsonBytes(x)
	if err != nil {
		return nil, err
	}
	result := gjson.GetBytes(data, normalizePath(p.Path))
	if !result.Exists() {
		return nil, nil
	}
	return result.Value(), nil
}

func (p *Path) Map(f func(Expr) Expr) Expr {
	return &Path{X: f(p.X), Path: p.Path}
}

// Schema validates the JSON form of its operand against an inline JSON Schema.
type Schema struct {
	X      Expr
	Schema string
}

func (s *Schema) Render() string {
	return "matchesSchema(" + s.X.Render() + ")"
}

func (s *Schema) Eval() (any, error) {
	x, err := s.X.Eval()
	if err != nil {
		return nil, err
	}
	data, err := jsonBytes(x)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(s.Schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return result.Valid(), nil
}

func (s *Schema) Map(f func(Expr) Expr) Expr {
	return &Schema{X: f(s.X), Schema: s.Schema}
}

// JSONPath reads path from the JSON form of x. Bracket indexes such as
// items[0].id are accepted alongside gjson dot syntax.
func JSONPath[V any](x Term[V], path string) Term[any] {
	return Term[any]{expr: &Path{X: x.expr, Path: path}}
}

// MatchesSchema holds when the JSON form of x validates against schema.
func MatchesSchema[V any](x Term[V], schema string) Cond {
	return Cond{expr: &Schema{X: x.expr, Schema: schema}}
}

// jsonBytes uses strings and byte slices as-is when they already hold valid
// JSON and marshals everything else.
func jsonBytes(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		if gjson.Valid(val) {
			return []byte(val), nil
		}
	case []byte:
		if gjson.ValidBytes(val) {
			return val, nil
		}
	case json.RawMessage:
		return val, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode operand as JSON: %w", err)
	}
	return data, nil
}

func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "$.")
	path = strings.TrimPrefix(path, "$")
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	return strings.TrimPrefix(path, ".")
}
