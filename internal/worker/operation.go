package worker

import (
	"math"
	"sort"

	apperrors "github.com/agbru/workerlab/internal/errors"
)

// Operation is a named pure function applied by a producer to each input.
type Operation struct {
	Name  string
	Apply func(int64) (int64, error)
}

var (
	// Identity forwards the input unchanged.
	Identity = Operation{Name: "identity", Apply: func(x int64) (int64, error) { return x, nil }}
	// Square computes x².
	Square = Operation{Name: "square", Apply: func(x int64) (int64, error) { return mulChecked(x, x) }}
	// Cube computes x³.
	Cube = Operation{Name: "cube", Apply: func(x int64) (int64, error) {
		sq, err := mulChecked(x, x)
		if err != nil {
			return 0, err
		}
		return mulChecked(sq, x)
	}}
)

var operations = map[string]Operation{
	Identity.Name: Identity,
	Square.Name:   Square,
	Cube.Name:     Cube,
}

// LookupOperation resolves a built-in operation by name.
func LookupOperation(name string) (Operation, error) {
	op, ok := operations[name]
	if !ok {
		return Operation{}, apperrors.ValidationError{Field: "operation", Message: "unknown operation " + name}
	}
	return op, nil
}

// OperationNames lists the built-in operations in sorted order.
func OperationNames() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mulChecked(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, apperrors.ErrOverflow
	}
	r := a * b
	if r/b != a {
		return 0, apperrors.ErrOverflow
	}
	return r, nil
}
