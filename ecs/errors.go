package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnsupportedParameter is returned when a system declares a parameter
// that is neither *Commands nor a query type.
var ErrUnsupportedParameter = errors.New("ecs: unsupported system parameter")

// UnsupportedParameterError reports which parameter of which system was
// rejected. It unwraps to ErrUnsupportedParameter.
type UnsupportedParameterError struct {
	System string
	Index  int
	Type   reflect.Type
}

func (e *UnsupportedParameterError) Error() string {
	return fmt.Sprintf("%v: parameter %d of %s has type %v (want *ecs.Commands or an ecs query)",
		ErrUnsupportedParameter, e.Index, e.System, e.Type)
}

func (e *UnsupportedParameterError) Unwrap() error {
	return ErrUnsupportedParameter
}
