package validator

import (
	"fmt"

	"github.com/expr-lang/expr"
)

func init() {
	register("expr", exprFactory)
}

// exprFactory compiles params["expression"] once. The expression sees
// value, values, field and a sibling(name) function, and must yield a bool.
// Runtime errors count as a failed check.
func exprFactory(p Params) (Predicate, error) {
	src, err := p.String("expression")
	if err != nil {
		return nil, err
	}
	prog, err := expr.Compile(src, expr.Env(exprEnv(NewElement("", nil, nil))), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: compile expression: %v", ErrInvalidParams, err)
	}

	return func(el Element) bool {
		out, err := expr.Run(prog, exprEnv(el))
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}, nil
}

func exprEnv(el Element) map[string]any {
	values := el.Values
	if values == nil {
		values = []string{}
	}
	return map[string]any{
		"value":   el.Value(),
		"values":  values,
		"field":   el.Name,
		"sibling": el.SiblingValue,
	}
}
