package ecs

import (
	"reflect"
	"runtime"
	"strings"
	"time"
)

var (
	commandsType   = reflect.TypeFor[*Commands]()
	descriptorType = reflect.TypeFor[queryDescriptor]()
)

// binder produces the argument for one system parameter. It runs right
// before every call, so queries always see the current storage.
type binder func() reflect.Value

// system is a registered function together with its parameter binders.
type system struct {
	name    string
	phase   Phase
	fn      reflect.Value
	binders []binder
	args    []reflect.Value
	stats   systemStatsInternal
}

func (s *system) invoke() {
	for i, bind := range s.binders {
		s.args[i] = bind()
	}

	start := time.Now()
	s.fn.Call(s.args)
	s.stats.record(time.Since(start))

	// Drop the bound snapshots so they can be collected before the next call.
	clear(s.args)
}

// systemName returns a readable name for a system function, such as
// "main.spawnPlayers" or "mypkg.(*Game).move-fm".
func systemName(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return fn.Type().String()
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// newSystem inspects fn's signature and builds a binder per parameter.
func newSystem(phase Phase, fn any, storage *Storage, commands *Commands) (*system, error) {
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func || value.IsNil() {
		panic("ecs: system must be a non-nil function")
	}

	fnType := value.Type()
	sys := &system{
		name:    systemName(value),
		phase:   phase,
		fn:      value,
		binders: make([]binder, fnType.NumIn()),
		args:    make([]reflect.Value, fnType.NumIn()),
		stats:   newSystemStatsInternal(),
	}

	for i := 0; i < fnType.NumIn(); i++ {
		b, err := bindParameter(fnType.In(i), storage, commands)
		if err != nil {
			return nil, &UnsupportedParameterError{System: sys.name, Index: i, Type: fnType.In(i)}
		}
		sys.binders[i] = b
	}

	return sys, nil
}

func bindParameter(t reflect.Type, storage *Storage, commands *Commands) (binder, error) {
	if t == commandsType {
		arg := reflect.ValueOf(commands)
		return func() reflect.Value { return arg }, nil
	}

	if t.Kind() == reflect.Struct && t.Implements(descriptorType) {
		desc := reflect.Zero(t).Interface().(queryDescriptor)
		// Structs embedding a query also satisfy the interface but would
		// resolve to the embedded type.
		if desc.queryType() == t {
			return func() reflect.Value { return desc.resolve(storage) }, nil
		}
	}

	return nil, ErrUnsupportedParameter
}
