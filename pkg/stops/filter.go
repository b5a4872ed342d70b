package stops

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/fastroute/fastroute/pkg/ctdf"
)

// Filter is a compiled boolean expression evaluated against each stop, eg.
// `Active && Sequence < 20` or `PrimaryName contains "Terminal"`
type Filter struct {
	program *vm.Program
}

func NewFilter(expression string) (*Filter, error) {
	if expression == "" {
		return &Filter{}, nil
	}

	program, err := expr.Compile(expression, expr.Env(ctdf.Stop{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling stop filter %q: %w", expression, err)
	}

	return &Filter{program: program}, nil
}

func (f *Filter) Match(stop *ctdf.Stop) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	output, err := expr.Run(f.program, *stop)
	if err != nil {
		return false, err
	}

	return output.(bool), nil
}
